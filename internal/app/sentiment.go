package app

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
)

// Separators between title and body when building the text to classify.
const (
	ReviewSeparator = " "
	PostSeparator   = ". "
)

// classify never fails the caller: blank text is Neutral without a model call
// and a model error is reported alongside a Neutral label.
func classify(ctx context.Context, cls domain.Classifier, text string) (domain.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		observability.ObserveClassification(string(domain.Neutral), "empty")
		return domain.Neutral, nil
	}
	s, err := cls.Classify(ctx, text)
	if err != nil {
		observability.ObserveClassification(string(domain.Neutral), "fallback")
		return domain.Neutral, err
	}
	observability.ObserveClassification(string(s), "classified")
	return s, nil
}

// LabelRecords sets Sentiment on every record from its title and body joined
// by sep. Records whose text the model rejects stay Neutral and are returned
// as failures.
func LabelRecords(ctx context.Context, l zerolog.Logger, cls domain.Classifier, rs []domain.Record, sep string) []domain.Failure {
	var failures []domain.Failure
	for i := range rs {
		s, err := classify(ctx, cls, rs[i].CombinedText(sep))
		if err != nil {
			l.Warn().Err(err).Str("key", rs[i].Key).Msg("classification failed; using Neutral")
			failures = append(failures, domain.Failure{Scope: "classify", Key: rs[i].Key, Err: err})
		}
		rs[i].Sentiment = s
	}
	return failures
}
