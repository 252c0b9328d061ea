package classifier

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"consumer_trends/internal/domain"
)

// Cached memoises labels in a shared cache so re-fetched posts are not sent to
// the model again. Cache failures fall through to the wrapped classifier.
type Cached struct {
	next      domain.Classifier
	cache     domain.Cache
	ttl       time.Duration
	maxTokens int
}

func NewCached(next domain.Classifier, cache domain.Cache, ttl time.Duration, maxTokens int) *Cached {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Cached{next: next, cache: cache, ttl: ttl, maxTokens: maxTokens}
}

func (c *Cached) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Neutral, nil
	}
	key := cacheKey(Truncate(text, c.maxTokens))

	var hit string
	if ok, err := c.cache.Get(ctx, key, &hit); err != nil {
		log.Warn().Err(err).Msg("sentiment cache read failed")
	} else if ok {
		if s := domain.ParseSentiment(hit); s != "" {
			return s, nil
		}
	}

	s, err := c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}
	if err := c.cache.Set(ctx, key, string(s), int(c.ttl.Seconds())); err != nil {
		log.Warn().Err(err).Msg("sentiment cache write failed")
	}
	return s, nil
}

func cacheKey(text string) string {
	sum := sha1.Sum([]byte(text))
	return "sentiment:" + hex.EncodeToString(sum[:])
}
