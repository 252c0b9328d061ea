// Package notify delivers run outcomes by email, or to the log when no SMTP
// relay is configured.
package notify

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/wneessen/go-mail"

	"consumer_trends/internal/domain"
)

// AttachmentName is the file name the alert table is attached under.
const AttachmentName = "sentiment_alert.csv"

type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
	to   []string
}

func NewMailer(host string, port int, user, pass, from string, to []string) (*Mailer, error) {
	if host == "" {
		return nil, errors.New("smtp host is empty")
	}
	if from == "" {
		from = user
	}
	if from == "" || len(to) == 0 {
		return nil, errors.New("mail sender and recipients are required")
	}
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from, to: to}, nil
}

// Send dials the relay for every message; runs send at most one.
func (m *Mailer) Send(ctx context.Context, subject, body string, attachment *domain.Table) error {
	msg, err := m.message(subject, body, attachment)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(m.port),
		mail.WithTLSPortPolicy(mail.TLSOpportunistic),
	}
	if m.user != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.user),
			mail.WithPassword(m.pass),
		)
	}
	c, err := mail.NewClient(m.host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending %q: %w", subject, err)
	}
	log.Info().Str("subject", subject).Strs("to", m.to).Msg("notification sent")
	return nil
}

func (m *Mailer) message(subject, body string, attachment *domain.Table) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return nil, fmt.Errorf("mail from: %w", err)
	}
	if err := msg.To(m.to...); err != nil {
		return nil, fmt.Errorf("mail to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if attachment != nil && !attachment.Empty() {
		b, err := EncodeCSV(attachment)
		if err != nil {
			return nil, err
		}
		if err := msg.AttachReader(AttachmentName, bytes.NewReader(b)); err != nil {
			return nil, fmt.Errorf("attaching table: %w", err)
		}
	}
	return msg, nil
}

// EncodeCSV renders t with a header row.
func EncodeCSV(t *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Columns); err != nil {
		return nil, err
	}
	if err := w.WriteAll(t.Records()); err != nil {
		return nil, fmt.Errorf("encoding attachment: %w", err)
	}
	return buf.Bytes(), nil
}
