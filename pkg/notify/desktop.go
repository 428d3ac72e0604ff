package notify

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"followwatch/pkg/logger"
	"followwatch/pkg/report"
)

// DesktopSender shows a desktop notification
type DesktopSender interface {
	Send(ctx context.Context, title, message string) error
}

// LinuxSender uses notify-send
type LinuxSender struct{}

func (LinuxSender) Send(ctx context.Context, title, message string) error {
	return exec.CommandContext(ctx, "notify-send", title, message).Run()
}

// MacOSSender uses osascript
type MacOSSender struct{}

func (MacOSSender) Send(ctx context.Context, title, message string) error {
	script := fmt.Sprintf(`display notification %s with title %s`, appleScriptQuote(message), appleScriptQuote(title))
	return exec.CommandContext(ctx, "osascript", "-e", script).Run()
}

func appleScriptQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// PlatformSender returns the sender for the running OS, or nil when the
// platform has none.
func PlatformSender() DesktopSender {
	switch runtime.GOOS {
	case "linux":
		return LinuxSender{}
	case "darwin":
		return MacOSSender{}
	default:
		return nil
	}
}

// DesktopNotifier shows a one-line summary of the report on the local
// desktop. Recipients are ignored.
type DesktopNotifier struct {
	sender DesktopSender
	logger logger.Logger
}

// NewDesktopNotifier creates a notifier using sender, or the platform
// sender when nil.
func NewDesktopNotifier(sender DesktopSender, log logger.Logger) *DesktopNotifier {
	if sender == nil {
		sender = PlatformSender()
	}
	return &DesktopNotifier{sender: sender, logger: logger.OrDefault(log)}
}

// Notify shows the summary. Desktop notifications are best effort, so a
// failure is logged and not returned.
func (d *DesktopNotifier) Notify(ctx context.Context, recipients []string, r *report.Report) error {
	if d.sender == nil {
		d.logger.Debug("desktop notifications not supported on this platform")
		return nil
	}

	if err := d.sender.Send(ctx, "followwatch", r.Summary()); err != nil {
		d.logger.WithError(err).Warn("desktop notification failed")
	}
	return nil
}
