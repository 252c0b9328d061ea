package tablefile

import (
	"context"
	"errors"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

// Store keeps every record of one source in a single table file. Upsert
// rewrites the whole file; concurrent writers are not coordinated.
type Store struct {
	path string
	src  domain.Source
}

func NewStore(path string, src domain.Source) *Store {
	return &Store{path: path, src: src}
}

func (s *Store) Path() string { return s.path }

func (s *Store) Load(_ context.Context) ([]domain.Record, error) {
	t, err := ReadTable(s.path)
	if errors.Is(err, domain.ErrNoStore) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return domain.TableToRecords(s.src, t), nil
}

func (s *Store) Upsert(ctx context.Context, rs []domain.Record) (domain.MergeStats, error) {
	existing, err := s.Load(ctx)
	if err != nil {
		return domain.MergeStats{}, err
	}
	merged, st := app.MergeByKey(existing, rs)
	if err := WriteTable(s.path, domain.RecordsToTable(s.src, merged)); err != nil {
		return domain.MergeStats{}, err
	}
	return st, nil
}
