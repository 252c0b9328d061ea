package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"consumer_trends/internal/domain"
)

// Enricher labels every row of a review table and rewrites review_date as
// DD-MM-YYYY. All other columns pass through untouched.
type Enricher struct {
	in  domain.TableSource
	out domain.TableSink
	cls domain.Classifier
}

func NewEnricher(in domain.TableSource, out domain.TableSink, cls domain.Classifier) *Enricher {
	return &Enricher{in: in, out: out, cls: cls}
}

func (e *Enricher) Run(ctx context.Context) domain.RunResult {
	return execute(ctx, PipelineEnricher, e.run)
}

func (e *Enricher) run(ctx context.Context, l zerolog.Logger, res *domain.RunResult) error {
	if e.cls == nil {
		return errors.New("enricher needs a classifier")
	}
	t, err := e.in.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading reviews: %w", err)
	}
	res.Fetched = t.Len()
	t.EnsureColumn("sentiment_label")
	t.EnsureColumn("review_date")

	for i := range t.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		text := t.Get(i, "review_title") + ReviewSeparator + t.Get(i, "review_text")
		s, err := classify(ctx, e.cls, text)
		if err != nil {
			l.Warn().Err(err).Int("row", i).Msg("classification failed; using Neutral")
			res.Fail("classify", fmt.Sprintf("row %d", i+1), err)
		}
		t.Set(i, "sentiment_label", string(s))
		t.Set(i, "review_date", ExtractReviewDate(t.Get(i, "review_date")))
	}

	if err := e.out.Write(ctx, t); err != nil {
		return fmt.Errorf("writing labelled reviews: %w", err)
	}
	res.Total = t.Len()
	res.Output = fmt.Sprint(e.out)
	return nil
}
