package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gomail "github.com/wneessen/go-mail"

	"AirworthinessDigest/internal/ports"
)

const implicitTLSPort = 465

// Settings holds the SMTP account used for delivery.
type Settings struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
	Timeout   time.Duration
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

// Notifier sends digests to a single mailbox over authenticated SMTP.
type Notifier struct {
	settings Settings
	client   sender
	renderer *Renderer
	logger   *slog.Logger
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier prepares an SMTP client; port 465 uses implicit TLS, anything else STARTTLS.
func NewNotifier(settings Settings, log *slog.Logger) (*Notifier, error) {
	if settings.Host == "" || settings.Sender == "" || settings.Recipient == "" {
		return nil, fmt.Errorf("mail notifier misconfigured")
	}
	if settings.Port == 0 {
		settings.Port = implicitTLSPort
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	opts := []gomail.Option{
		gomail.WithPort(settings.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(settings.Sender),
		gomail.WithPassword(settings.Password),
		gomail.WithTimeout(settings.Timeout),
	}
	if settings.Port == implicitTLSPort {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	client, err := gomail.NewClient(settings.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &Notifier{
		settings: settings,
		client:   client,
		renderer: NewRenderer(),
		logger:   log,
	}, nil
}

// Recipient reports where digests are sent.
func (n *Notifier) Recipient() string {
	return n.settings.Recipient
}

// PublishDigest mails body as plain text with an HTML alternative.
func (n *Notifier) PublishDigest(ctx context.Context, subject, body string) error {
	if n == nil || n.client == nil {
		return fmt.Errorf("mail notifier misconfigured")
	}

	msg, err := n.Message(subject, body)
	if err != nil {
		return err
	}

	if err := n.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail via %s:%d: %w", n.settings.Host, n.settings.Port, err)
	}

	n.logger.InfoContext(ctx, "digest mailed", "recipient", n.settings.Recipient, "subject", subject)
	return nil
}

// Message assembles the outgoing mail without sending it.
func (n *Notifier) Message(subject, body string) (*gomail.Msg, error) {
	msg := gomail.NewMsg()
	if err := msg.From(n.settings.Sender); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(n.settings.Recipient); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(subject)
	msg.SetDate()

	msg.SetBodyString(gomail.TypeTextPlain, body)

	html, err := n.renderer.HTML(body)
	if err != nil {
		n.logger.Warn("html alternative skipped", "error", err)
		return msg, nil
	}
	msg.AddAlternativeString(gomail.TypeTextHTML, html)

	return msg, nil
}
