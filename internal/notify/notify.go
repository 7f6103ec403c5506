// Package notify delivers failure notifications by mail.
//
// Notification is optional. When the sender, recipient or relay is not
// configured, New returns a Noop notifier and failures are only logged.
package notify

import (
	"context"

	"github.com/nao1215/weatherscraper/internal/config"
)

// Subject is the subject line of every notification.
const Subject = "WeatherScraper Script Problem Notification"

// Notifier sends a plain-text failure message.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Noop discards every message.
type Noop struct{}

// Notify does nothing.
func (Noop) Notify(context.Context, string) error {
	return nil
}

// New returns the notifier described by cfg, or Noop when cfg is incomplete.
func New(cfg config.MailConfig) Notifier {
	if !cfg.Enabled() {
		return Noop{}
	}
	if cfg.Provider == config.MailProviderSendGrid {
		return NewSendGrid(cfg.SendGridAPIKey, cfg.From, cfg.To)
	}
	return NewSMTP(cfg.Server, cfg.From, cfg.To, cfg.Username, cfg.Password)
}
