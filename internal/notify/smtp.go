package notify

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/smtp"
	"time"
)

const defaultSMTPPort = "25"

// sendMailFunc has the signature of smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends notifications through an SMTP relay.
type SMTPNotifier struct {
	addr     string
	host     string
	from     string
	to       string
	username string
	password string
	now      func() time.Time
	send     sendMailFunc
}

// NewSMTP returns a notifier for the relay at server ("host" or "host:port").
// PLAIN authentication is used when both username and password are set.
func NewSMTP(server, from, to, username, password string) *SMTPNotifier {
	host, port, err := net.SplitHostPort(server)
	if err != nil {
		host, port = server, defaultSMTPPort
	}
	return &SMTPNotifier{
		addr:     net.JoinHostPort(host, port),
		host:     host,
		from:     from,
		to:       to,
		username: username,
		password: password,
		now:      time.Now,
		send:     smtp.SendMail,
	}
}

// Addr returns the relay address including the port.
func (n *SMTPNotifier) Addr() string {
	return n.addr
}

// Notify sends message to the configured recipient.
func (n *SMTPNotifier) Notify(ctx context.Context, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if n.username != "" && n.password != "" {
		auth = smtp.PlainAuth("", n.username, n.password, n.host)
	}

	if err := n.send(n.addr, auth, n.from, []string{n.to}, n.message(message)); err != nil {
		return fmt.Errorf("send notification via %s: %w", n.addr, err)
	}
	return nil
}

func (n *SMTPNotifier) message(body string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "From: %s\r\n", n.from)
	fmt.Fprintf(&b, "To: %s\r\n", n.to)
	fmt.Fprintf(&b, "Subject: %s\r\n", Subject)
	fmt.Fprintf(&b, "Date: %s\r\n", n.now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	b.WriteString("\r\n")
	return b.Bytes()
}
