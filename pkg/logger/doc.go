// Package logger provides a structured logging interface for followwatch.
//
// It wraps zerolog with a small Logger interface so components can be handed
// a logger explicitly and tested with TestLogger or NewNopLogger:
//
//	log, err := logger.New(&cfg.Logging)
//	log.WithField("channel", channel).Info("Loading previous snapshot")
//
// When LoggingConfig.File is set, entries are also written as JSON to a file
// rotated by lumberjack (MaxSize in MB, MaxBackups, MaxAge in days, Compress).
package logger
