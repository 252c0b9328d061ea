package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
)

// AmazonPipeline searches products per category, pulls their reviews into the
// cumulative store and runs spike detection over the whole store.
type AmazonPipeline struct {
	src         domain.ProductSource
	store       domain.RecordStore
	cls         domain.Classifier
	detector    domain.SpikeDetector
	categories  []string
	perCategory int
	now         func() time.Time
}

// NewAmazonPipeline accepts a nil classifier; reviews then keep whatever label
// the API returned.
func NewAmazonPipeline(src domain.ProductSource, store domain.RecordStore, cls domain.Classifier,
	detector domain.SpikeDetector, categories []string, perCategory int) *AmazonPipeline {
	if perCategory <= 0 {
		perCategory = 2
	}
	return &AmazonPipeline{
		src:         src,
		store:       store,
		cls:         cls,
		detector:    detector,
		categories:  categories,
		perCategory: perCategory,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (p *AmazonPipeline) Run(ctx context.Context) domain.RunResult {
	return execute(ctx, PipelineAmazon, p.run)
}

func (p *AmazonPipeline) run(ctx context.Context, l zerolog.Logger, res *domain.RunResult) error {
	fresh := p.fetch(ctx, l, res)
	if err := ctx.Err(); err != nil {
		return err
	}
	res.Fetched = len(fresh)
	observability.ObserveFetched(string(domain.SourceAmazon), len(fresh))

	if len(fresh) > 0 {
		if p.cls != nil {
			var unlabelled []int
			for i, r := range fresh {
				if r.Sentiment == "" {
					unlabelled = append(unlabelled, i)
				}
			}
			batch := make([]domain.Record, len(unlabelled))
			for j, i := range unlabelled {
				batch[j] = fresh[i]
			}
			for _, f := range LabelRecords(ctx, l, p.cls, batch, ReviewSeparator) {
				res.Fail(f.Scope, f.Key, f.Err)
			}
			for j, i := range unlabelled {
				fresh[i] = batch[j]
			}
		}
		l.Info().Int("reviews", len(fresh)).Msg("new reviews fetched; merging into store")
		st, err := p.store.Upsert(ctx, fresh)
		if err != nil {
			return fmt.Errorf("updating review store: %w", err)
		}
		res.Merge = st
	} else {
		l.Info().Msg("no new reviews fetched; analysing existing store")
	}

	all, err := p.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading review store: %w", err)
	}
	res.Total = len(all)

	alert, err := p.detector.Detect(domain.RecordsToTable(domain.SourceAmazon, all))
	if err != nil {
		return fmt.Errorf("spike detection: %w", err)
	}
	res.Alert = alert
	return nil
}

// fetch walks every category; a failed search or review call only skips that
// category or product.
func (p *AmazonPipeline) fetch(ctx context.Context, l zerolog.Logger, res *domain.RunResult) []domain.Record {
	var out []domain.Record
	for _, label := range p.categories {
		if ctx.Err() != nil {
			return out
		}
		products, err := p.src.SearchProducts(ctx, label)
		if err != nil {
			l.Warn().Err(err).Str("label", label).Msg("skipping category")
			res.Fail("category", label, err)
			continue
		}
		if len(products) > p.perCategory {
			products = products[:p.perCategory]
		}
		for _, prod := range products {
			asin := lookupStr(prod, "asin")
			if asin == "" {
				continue
			}
			reviews, err := p.src.ProductReviews(ctx, asin)
			if err != nil {
				l.Warn().Err(err).Str("label", label).Str("asin", asin).Msg("skipping product")
				res.Fail("product", asin, err)
				continue
			}
			now := p.now()
			for _, r := range reviews {
				out = append(out, mapReview(label, asin, r, now))
			}
		}
	}
	return out
}
