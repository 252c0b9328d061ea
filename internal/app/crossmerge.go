package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"consumer_trends/internal/domain"
)

// Sentiment policies for the Amazon side of the cross-source merge.
const (
	// SentimentFromModel keeps a valid existing label and derives one from the
	// rating otherwise.
	SentimentFromModel = "model"
	// SentimentFromRating always derives the label from the rating.
	SentimentFromRating = "rating"
)

// CrossSourceMerger combines product reviews with an externally topic-labelled
// review table into one table of domain.CombinedColumns.
type CrossSourceMerger struct {
	amazon domain.TableSource
	topics domain.TableSource
	out    domain.TableSink
	policy string
}

func NewCrossSourceMerger(amazon, topics domain.TableSource, out domain.TableSink, policy string) *CrossSourceMerger {
	if policy != SentimentFromRating {
		policy = SentimentFromModel
	}
	return &CrossSourceMerger{amazon: amazon, topics: topics, out: out, policy: policy}
}

func (m *CrossSourceMerger) Run(ctx context.Context) domain.RunResult {
	return execute(ctx, PipelineMerger, m.run)
}

func (m *CrossSourceMerger) run(ctx context.Context, l zerolog.Logger, res *domain.RunResult) error {
	rapid, err := m.amazon.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading product reviews: %w", err)
	}
	topics, err := m.topics.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading topic reviews: %w", err)
	}
	res.Fetched = rapid.Len() + topics.Len()

	combined := Combine(rapid, topics, m.policy)
	if err := m.out.Write(ctx, combined); err != nil {
		return fmt.Errorf("writing combined reviews: %w", err)
	}
	l.Info().Int("amazon", rapid.Len()).Int("topics", topics.Len()).Msg("reviews combined")
	res.Total = combined.Len()
	res.Output = fmt.Sprint(m.out)
	return nil
}

// Combine normalises both tables to domain.CombinedColumns and stacks the
// product reviews above the topic-labelled ones. The inputs are modified.
func Combine(rapid, topics *domain.Table, policy string) *domain.Table {
	rapid.RenameColumn("label", "category")
	for i := range rapid.Rows {
		text := strings.TrimSpace(rapid.Get(i, "review_title") + ReviewSeparator + rapid.Get(i, "review_text"))
		rapid.Set(i, "review_text", text)
		rapid.Set(i, "review_date", ExtractTrailingDate(rapid.Get(i, "review_date")))
		rapid.Set(i, "sentiment_label", string(mergeSentiment(rapid.Get(i, "sentiment_label"), rapid.Get(i, "rating"), policy)))
	}

	topics.RenameColumn("sentiment", "sentiment_label")
	for i := range topics.Rows {
		topics.Set(i, "review_date", NormalizeDate(topics.Get(i, "review_date")))
	}

	out := rapid.Project(domain.CombinedColumns...)
	out.Rows = append(out.Rows, topics.Project(domain.CombinedColumns...).Rows...)
	return out
}

func mergeSentiment(existing, rating, policy string) domain.Sentiment {
	if policy == SentimentFromModel {
		if s := domain.ParseSentiment(existing); s != "" {
			return s
		}
	}
	return RatingTextToSentiment(rating)
}
