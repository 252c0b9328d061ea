package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
)

// RedditPipeline searches posts per category, labels them, saves this run's
// posts as a snapshot and merges them into the cumulative store.
type RedditPipeline struct {
	src        domain.PostSource
	store      domain.RecordStore
	cls        domain.Classifier
	weekly     domain.TableSink
	categories []string
	now        func() time.Time
}

// NewRedditPipeline accepts a nil weekly sink to skip the snapshot.
func NewRedditPipeline(src domain.PostSource, store domain.RecordStore, cls domain.Classifier,
	weekly domain.TableSink, categories []string) *RedditPipeline {
	return &RedditPipeline{
		src:        src,
		store:      store,
		cls:        cls,
		weekly:     weekly,
		categories: categories,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (p *RedditPipeline) Run(ctx context.Context) domain.RunResult {
	return execute(ctx, PipelineReddit, p.run)
}

func (p *RedditPipeline) run(ctx context.Context, l zerolog.Logger, res *domain.RunResult) error {
	if p.cls == nil {
		return errors.New("reddit pipeline needs a classifier")
	}
	posts := p.fetch(ctx, l, res)
	if err := ctx.Err(); err != nil {
		return err
	}

	kept := posts[:0]
	for _, r := range posts {
		r.Title = CleanText(r.Title)
		r.Text = CleanText(r.Text)
		r.Subreddit = CleanText(r.Subreddit)
		if r.Text == "" {
			continue
		}
		kept = append(kept, r)
	}
	res.Fetched = len(kept)
	observability.ObserveFetched(string(domain.SourceReddit), len(kept))
	l.Info().Int("posts", len(posts)).Int("with_text", len(kept)).Msg("posts fetched")

	for _, f := range LabelRecords(ctx, l, p.cls, kept, PostSeparator) {
		res.Fail(f.Scope, f.Key, f.Err)
	}

	if p.weekly != nil {
		if err := p.weekly.Write(ctx, domain.RecordsToTable(domain.SourceReddit, kept)); err != nil {
			return fmt.Errorf("writing weekly snapshot: %w", err)
		}
		l.Info().Msg("weekly snapshot saved")
	}

	st, err := p.store.Upsert(ctx, kept)
	if err != nil {
		return fmt.Errorf("updating post store: %w", err)
	}
	res.Merge = st
	res.Total = st.Total
	return nil
}

func (p *RedditPipeline) fetch(ctx context.Context, l zerolog.Logger, res *domain.RunResult) []domain.Record {
	var out []domain.Record
	for _, label := range p.categories {
		if ctx.Err() != nil {
			return out
		}
		found, err := p.src.Search(ctx, shared.Query(label))
		if err != nil {
			l.Warn().Err(err).Str("label", label).Msg("skipping category")
			res.Fail("category", label, err)
			continue
		}
		now := p.now()
		for _, post := range found {
			out = append(out, mapPost(label, post, now))
		}
	}
	return out
}
