package notify

import (
	"context"

	"github.com/rs/zerolog"

	"consumer_trends/internal/domain"
)

// LogNotifier writes notifications to the log instead of mailing them.
type LogNotifier struct {
	L zerolog.Logger
}

func (n LogNotifier) Send(_ context.Context, subject, body string, attachment *domain.Table) error {
	ev := n.L.Info().Str("subject", subject).Str("body", body)
	if attachment != nil {
		ev = ev.Int("rows", attachment.Len()).Strs("columns", attachment.Columns)
	}
	ev.Msg("notification")
	return nil
}
