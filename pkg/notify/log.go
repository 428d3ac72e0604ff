package notify

import (
	"context"

	"followwatch/pkg/logger"
	"followwatch/pkg/report"
)

// LogNotifier writes the report to the log
type LogNotifier struct {
	logger logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.OrDefault(log)}
}

func (l *LogNotifier) Notify(ctx context.Context, recipients []string, r *report.Report) error {
	l.logger.InfoWithFields("follower report", map[string]interface{}{
		"channel":    r.Channel(),
		"removed":    logger.Names(r.Diff.Removed, 50),
		"added":      logger.Names(r.Diff.Added, 50),
		"recipients": len(recipients),
	})
	return nil
}
