package mailer

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/accounts-backend/internal/config"
	"github.com/wneessen/go-mail"
)

// Message is a rendered transactional email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// SMTPMailer delivers messages through a single SMTP relay. A new connection
// is dialled per message.
type SMTPMailer struct {
	from    string
	host    string
	options []mail.Option
}

func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	opts := []mail.Option{
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
		mail.WithPort(cfg.SMTPPort),
	}
	if cfg.SMTPUsername != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUsername),
			mail.WithPassword(cfg.SMTPPassword),
		)
	}
	return &SMTPMailer{from: cfg.SMTPFrom, host: cfg.SMTPHost, options: opts}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	if msg.HTMLBody != "" {
		mm.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	}

	client, err := mail.NewClient(m.host, m.options...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
