package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

// ---- fakes ----

type fakeReader struct {
	rec   domain.Record
	list  []domain.Record
	lastQ domain.RecordsQuery
	calls int
}

func (f *fakeReader) GetRecord(ctx context.Context, src domain.Source, key string) (domain.Record, error) {
	f.calls++
	if key != f.rec.Key {
		return domain.Record{}, domain.ErrNotFound
	}
	return f.rec, nil
}

func (f *fakeReader) ListRecords(ctx context.Context, q domain.RecordsQuery) ([]domain.Record, error) {
	f.calls++
	f.lastQ = q
	return f.list, nil
}

type fakeCache struct {
	store map[string]any
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.Record:
		*d = v.(domain.Record)
	case *[]domain.Record:
		*d = v.([]domain.Record)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

// ---- tests ----

func TestGetRecord_CacheMissThenHit(t *testing.T) {
	repo := &fakeReader{rec: domain.Record{Source: domain.SourceReddit, Key: "p1", Title: "Best blender?"}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	r, err := q.GetRecord(context.Background(), domain.SourceReddit, "p1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r.Title != "Best blender?" {
		t.Fatalf("unexpected record: %+v", r)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.rec.Title = "SHOULD NOT SEE THIS"

	r2, err := q.GetRecord(context.Background(), domain.SourceReddit, "p1")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if r2.Title != "Best blender?" || repo.calls != 1 {
		t.Fatalf("expected cached record, got %q after %d repo calls", r2.Title, repo.calls)
	}
}

func TestGetRecord_NotFound(t *testing.T) {
	q := app.NewQueryService(&fakeReader{}, nil, time.Minute)
	if _, err := q.GetRecord(context.Background(), domain.SourceAmazon, "nope"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRecords_CacheAndLimits(t *testing.T) {
	repo := &fakeReader{list: []domain.Record{{Key: "a", Title: "Ana"}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	out, err := q.ListRecords(context.Background(), domain.RecordsQuery{Source: domain.SourceAmazon})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || repo.lastQ.Limit != app.DefaultLimit {
		t.Fatalf("unexpected list %+v with query %+v", out, repo.lastQ)
	}

	// Change repo, call again -> should come from cache
	repo.list[0].Title = "Changed"
	out2, _ := q.ListRecords(context.Background(), domain.RecordsQuery{Source: domain.SourceAmazon, Limit: 50})
	if out2[0].Title != "Ana" {
		t.Fatalf("expected cached title Ana, got %s", out2[0].Title)
	}

	if _, err := q.ListRecords(context.Background(), domain.RecordsQuery{Limit: 10_000}); err != nil {
		t.Fatalf("err: %v", err)
	}
	if repo.lastQ.Limit != app.MaxLimit {
		t.Fatalf("limit not clamped: %d", repo.lastQ.Limit)
	}
}
