package notify

import (
	"context"
	"errors"
	"fmt"

	"followwatch/pkg/report"
)

// Notifier delivers a report to a list of recipients
type Notifier interface {
	Notify(ctx context.Context, recipients []string, r *report.Report) error
}

// Func adapts a function to the Notifier interface
type Func func(ctx context.Context, recipients []string, r *report.Report) error

func (f Func) Notify(ctx context.Context, recipients []string, r *report.Report) error {
	return f(ctx, recipients, r)
}

// Nop accepts every report and does nothing
type Nop struct{}

func (Nop) Notify(ctx context.Context, recipients []string, r *report.Report) error { return nil }

// Multi delivers to every notifier in turn. One failing does not stop the
// others; all failures are joined.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, recipients []string, r *report.Report) error {
	var errs []error
	for i, n := range m {
		if err := n.Notify(ctx, recipients, r); err != nil {
			errs = append(errs, fmt.Errorf("notifier %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
