package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"followwatch/pkg/config"
	"followwatch/pkg/fetcher"
	"followwatch/pkg/logger"
	"followwatch/pkg/notify"
	"followwatch/pkg/ratelimit"
	"followwatch/pkg/secret"
	"followwatch/pkg/snapshot"
	"followwatch/pkg/tracker"
	"followwatch/pkg/twitch"
)

// app holds the components shared by the update, diff and show commands
type app struct {
	cfg        *config.Config
	log        logger.Logger
	store      snapshot.Store
	closeStore func() error
}

// loadConfig layers config file, environment and flags, then fills the SMTP
// password from the secret store when email is on
func loadConfig(flags map[string]interface{}) (*config.Config, error) {
	for k, v := range globalFlags() {
		flags[k] = v
	}

	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if cfg.Email.Enabled && cfg.Email.Password == "" {
		manager, err := secret.NewManager("")
		if err != nil {
			return nil, err
		}
		if err := secret.FillEmailPassword(&cfg.Email, manager); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp initializes logging and opens the snapshot store
func newApp(cfg *config.Config) (*app, error) {
	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := snapshot.Open(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	return &app{cfg: cfg, log: log, store: store, closeStore: closeStore}, nil
}

// fetcher builds the paginated follows fetcher against the configured endpoint
func (a *app) fetcher() *fetcher.Fetcher {
	tw := a.cfg.Twitch

	client := twitch.NewClient(tw.BaseURL, tw.Timeout, a.log)
	client.SetClientID(tw.ClientID)
	if tw.Accept != "" {
		client.SetHeader("Accept", tw.Accept)
	}

	limiter := ratelimit.ForConfig(a.cfg.RateLimit.MinInterval, a.cfg.RateLimit.RequestsPerMinute)
	return fetcher.New(client, limiter, fetcher.Options{
		PageSize:  tw.PageSize,
		Stride:    tw.Stride,
		Direction: tw.Direction,
		MaxPages:  tw.MaxPages,
	}, a.log)
}

// tracker wires store, fetcher and notifier into an update orchestrator
func (a *app) tracker(notifier notify.Notifier, dryRun bool) *tracker.Tracker {
	return tracker.New(a.store, a.fetcher(), notifier, tracker.Options{DryRun: dryRun}, a.log)
}

func (a *app) Close() {
	if err := a.closeStore(); err != nil {
		a.log.WithError(err).Warn("failed to close snapshot store")
	}
}

// parseChannel normalizes a channel argument and checks it is a Twitch login
func parseChannel(arg string) (string, error) {
	channel := twitch.SanitizeChannel(arg)
	if !twitch.IsValidChannel(channel) {
		return "", fmt.Errorf("invalid channel name %q", arg)
	}
	return channel, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
