package mailer

import (
	"context"
	"errors"
	"fmt"
	"html"
	"time"

	"github.com/wneessen/go-mail"
)

// Mailer sends transactional email over SMTP. It implements the mail hooks
// the document and invoice services accept.
type Mailer struct {
	client *mail.Client
	from   string
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	Timeout  time.Duration
}

func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, errors.New("smtp host and from address are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &Mailer{client: client, from: cfg.From}, nil
}

func (m *Mailer) send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// SendDocumentLink tells a document's subject a copy is ready for review.
func (m *Mailer) SendDocumentLink(ctx context.Context, toEmail, toName, title, url string) error {
	subject := "A document is waiting for you"
	if title != "" {
		subject = fmt.Sprintf("Document ready: %s", title)
	}
	body := fmt.Sprintf(
		`<p>Hi %s,</p><p>A document has been shared with you: <a href="%s">%s</a></p>`,
		html.EscapeString(firstNonEmpty(toName, "there")),
		html.EscapeString(url),
		html.EscapeString(firstNonEmpty(title, "view document")),
	)
	return m.send(ctx, toEmail, subject, body)
}

// SendInvoiceLink shares a stored invoice with a client inbox.
func (m *Mailer) SendInvoiceLink(ctx context.Context, toEmail, userName, pdfURL string) error {
	subject := fmt.Sprintf("Invoice from %s", firstNonEmpty(userName, "your vendor"))
	body := fmt.Sprintf(
		`<p>Hello,</p><p>%s has shared an invoice with you: <a href="%s">view invoice</a></p>`,
		html.EscapeString(firstNonEmpty(userName, "A vendor")),
		html.EscapeString(pdfURL),
	)
	return m.send(ctx, toEmail, subject, body)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
