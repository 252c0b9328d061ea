package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	// ErrNoStore marks a cumulative store that has never been written.
	ErrNoStore      = errors.New("store does not exist")
)

// ProductSource is the product-search/review API.
type ProductSource interface {
	SearchProducts(ctx context.Context, query string) ([]map[string]any, error)
	ProductReviews(ctx context.Context, asin string) ([]map[string]any, error)
}

// PostSource is the public post search API.
type PostSource interface {
	Search(ctx context.Context, query string) ([]map[string]any, error)
}

// Classifier assigns one of the three sentiment labels to free text.
type Classifier interface {
	Classify(ctx context.Context, text string) (Sentiment, error)
}

// RecordStore is a cumulative store keyed by Record.Key. Upsert resolves
// duplicate keys in favour of the incoming record.
type RecordStore interface {
	Load(ctx context.Context) ([]Record, error)
	Upsert(ctx context.Context, rs []Record) (MergeStats, error)
}

// RecordReader is the read side used by the HTTP API.
type RecordReader interface {
	ListRecords(ctx context.Context, q RecordsQuery) ([]Record, error)
	GetRecord(ctx context.Context, src Source, key string) (Record, error)
}

// SpikeDetector inspects the cumulative analysis table and returns an alert
// table, empty when nothing stands out.
type SpikeDetector interface {
	Detect(t *Table) (*Table, error)
}

// Notifier delivers one message, optionally with a table attached.
type Notifier interface {
	Send(ctx context.Context, subject, body string, attachment *Table) error
}

// Cache holds JSON-encoded values with a per-entry TTL in seconds.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// RecordsQuery filters a listing; an empty Source or Category matches all.
type RecordsQuery struct {
	Source   Source
	Category string
	Limit    int
}

// TableSource reads a whole table, e.g. a batch input file.
type TableSource interface {
	Read(ctx context.Context) (*Table, error)
}

// TableSink replaces its destination with t.
type TableSink interface {
	Write(ctx context.Context, t *Table) error
}
