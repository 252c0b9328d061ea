package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

// ---- fakes ----

type fakeProducts struct {
	products map[string][]map[string]any // by search query
	reviews  map[string][]map[string]any // by asin
	failCat  map[string]error
	failASIN map[string]error
	calls    []string
}

func (f *fakeProducts) SearchProducts(_ context.Context, q string) ([]map[string]any, error) {
	f.calls = append(f.calls, "search:"+q)
	if err := f.failCat[q]; err != nil {
		return nil, err
	}
	return f.products[q], nil
}

func (f *fakeProducts) ProductReviews(_ context.Context, asin string) ([]map[string]any, error) {
	f.calls = append(f.calls, "reviews:"+asin)
	if err := f.failASIN[asin]; err != nil {
		return nil, err
	}
	return f.reviews[asin], nil
}

type fakePosts struct {
	posts   map[string][]map[string]any // by query
	fail    map[string]error
	queries []string
}

func (f *fakePosts) Search(_ context.Context, q string) ([]map[string]any, error) {
	f.queries = append(f.queries, q)
	if err := f.fail[q]; err != nil {
		return nil, err
	}
	return f.posts[q], nil
}

// fakeClassifier labels by keyword and counts model calls.
type fakeClassifier struct {
	mu    sync.Mutex
	calls int
	texts []string
	fail  string // texts containing this fail
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (domain.Sentiment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.texts = append(f.texts, text)
	text = strings.ToLower(text)
	switch {
	case f.fail != "" && strings.Contains(text, f.fail):
		return "", errors.New("model unavailable")
	case strings.Contains(text, "broke"), strings.Contains(text, "awful"):
		return domain.Negative, nil
	case strings.Contains(text, "love"), strings.Contains(text, "great"):
		return domain.Positive, nil
	}
	return domain.Neutral, nil
}

// memStore is an in-memory RecordStore with the same merge policy as the
// file store.
type memStore struct {
	recs    []domain.Record
	loadErr error
	upserts int
}

func (m *memStore) Load(context.Context) ([]domain.Record, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return append([]domain.Record(nil), m.recs...), nil
}

func (m *memStore) Upsert(_ context.Context, rs []domain.Record) (domain.MergeStats, error) {
	m.upserts++
	var st domain.MergeStats
	m.recs, st = app.MergeByKey(m.recs, rs)
	return st, nil
}

type memTable struct {
	t       *domain.Table
	err     error
	written *domain.Table
}

func (m *memTable) Read(context.Context) (*domain.Table, error) { return m.t, m.err }

func (m *memTable) Write(_ context.Context, t *domain.Table) error {
	if m.err != nil {
		return m.err
	}
	m.written = t
	return nil
}

type fixedDetector struct {
	alert *domain.Table
	seen  *domain.Table
}

func (d *fixedDetector) Detect(t *domain.Table) (*domain.Table, error) {
	d.seen = t
	if d.alert == nil {
		return domain.NewTable(app.SpikeColumns...), nil
	}
	return d.alert, nil
}

type sentMessage struct {
	subject, body string
	attachment    *domain.Table
}

type recNotifier struct{ sent []sentMessage }

func (n *recNotifier) Send(_ context.Context, subject, body string, attachment *domain.Table) error {
	n.sent = append(n.sent, sentMessage{subject, body, attachment})
	return nil
}

func ptr[T any](v T) *T { return &v }
