package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridNotifier sends notifications through the SendGrid v3 API.
type SendGridNotifier struct {
	client *sendgrid.Client
	from   string
	to     string
}

// NewSendGrid returns a notifier that authenticates with apiKey.
func NewSendGrid(apiKey, from, to string) *SendGridNotifier {
	return &SendGridNotifier{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
		to:     to,
	}
}

// Notify sends message to the configured recipient.
func (n *SendGridNotifier) Notify(ctx context.Context, message string) error {
	p := mail.NewPersonalization()
	p.AddTos(mail.NewEmail("", n.to))

	email := mail.NewV3Mail()
	email.SetFrom(mail.NewEmail("weatherscraper", n.from))
	email.Subject = Subject
	email.AddPersonalizations(p)
	email.AddContent(mail.NewContent("text/plain", message))

	resp, err := n.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("send notification via sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("send notification via sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
