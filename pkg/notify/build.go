package notify

import (
	"followwatch/pkg/config"
	"followwatch/pkg/logger"
)

// FromConfig assembles the notifiers enabled in cfg. With none enabled it
// returns Nop.
func FromConfig(cfg *config.Config, log logger.Logger) (Notifier, error) {
	var notifiers Multi

	if cfg.Email.Enabled {
		email, err := NewEmailNotifier(cfg.Email, log)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, email)
	}
	if cfg.Notifications.Log {
		notifiers = append(notifiers, NewLogNotifier(log))
	}
	if cfg.Notifications.Desktop {
		notifiers = append(notifiers, NewDesktopNotifier(nil, log))
	}

	switch len(notifiers) {
	case 0:
		return Nop{}, nil
	case 1:
		return notifiers[0], nil
	default:
		return notifiers, nil
	}
}
