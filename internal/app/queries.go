package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"consumer_trends/internal/domain"
)

// Query limits for record listings.
const (
	DefaultLimit = 50
	MaxLimit     = 500
)

type QueryService struct {
	repo     domain.RecordReader
	cache    domain.Cache
	cacheTTL time.Duration
	group    singleflight.Group
}

// NewQueryService accepts a nil cache; every read then goes to the repository.
func NewQueryService(r domain.RecordReader, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetRecord(ctx context.Context, src domain.Source, key string) (domain.Record, error) {
	ck := fmt.Sprintf("record:%s:%s", src, key)
	var rec domain.Record
	if s.cached(ctx, ck, &rec) {
		return rec, nil
	}
	v, err, _ := s.group.Do(ck, func() (any, error) {
		r, err := s.repo.GetRecord(ctx, src, key)
		if err != nil {
			return domain.Record{}, err
		}
		s.store(ctx, ck, r)
		return r, nil
	})
	if err != nil {
		return domain.Record{}, err
	}
	return v.(domain.Record), nil
}

func (s *QueryService) ListRecords(ctx context.Context, q domain.RecordsQuery) ([]domain.Record, error) {
	q = NormalizeQuery(q)
	ck := fmt.Sprintf("records:%s:%s:%d", q.Source, strings.ToLower(q.Category), q.Limit)
	var out []domain.Record
	if s.cached(ctx, ck, &out) {
		return out, nil
	}
	v, err, _ := s.group.Do(ck, func() (any, error) {
		rs, err := s.repo.ListRecords(ctx, q)
		if err != nil {
			return nil, err
		}
		// copy so callers cannot mutate what sits in the cache
		cp := make([]domain.Record, len(rs))
		copy(cp, rs)
		s.store(ctx, ck, cp)
		return cp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Record), nil
}

// NormalizeQuery clamps the limit into 1..MaxLimit, defaulting to DefaultLimit.
func NormalizeQuery(q domain.RecordsQuery) domain.RecordsQuery {
	switch {
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	case q.Limit > MaxLimit:
		q.Limit = MaxLimit
	}
	q.Category = strings.TrimSpace(q.Category)
	return q
}

func (s *QueryService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, _ := s.cache.Get(ctx, key, dst)
	return ok
}

func (s *QueryService) store(ctx context.Context, key string, v any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Set(ctx, key, v, int(s.cacheTTL.Seconds()))
}
