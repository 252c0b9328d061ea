package tablefile

import (
	"context"

	"consumer_trends/internal/domain"
)

// File is a table file addressed by path; it serves as both source and sink.
type File string

func (f File) Read(_ context.Context) (*domain.Table, error) { return ReadTable(string(f)) }

func (f File) Write(_ context.Context, t *domain.Table) error { return WriteTable(string(f), t) }

func (f File) String() string { return string(f) }
