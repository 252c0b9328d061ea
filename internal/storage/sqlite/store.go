// Package sqlite keeps the cumulative record store in an embedded SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"consumer_trends/internal/domain"
)

// DB owns the connection; Store binds it to one source.
type DB struct{ db *sql.DB }

// Open creates the file and schema when missing.
func Open(ctx context.Context, path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, err
	}
	// SQLite serialises writers anyway.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) Store(src domain.Source) *Store { return &Store{db: d.db, src: src} }

type Store struct {
	db  *sql.DB
	src domain.Source
}

func (s *Store) Load(ctx context.Context) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, loadSQL, string(s.src))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Upsert writes rs in one transaction. The empty key is stored like any
// other, so keyless records collapse into the last one.
func (s *Store) Upsert(ctx context.Context, rs []domain.Record) (domain.MergeStats, error) {
	st := domain.MergeStats{Incoming: len(rs)}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return st, err
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, countSQL, string(s.src)).Scan(&st.Existing); err != nil {
		return st, err
	}
	var seq int64
	if err := tx.QueryRowContext(ctx, maxSeqSQL, string(s.src)).Scan(&seq); err != nil {
		return st, err
	}

	seen := make(map[string]struct{}, len(rs))
	for _, r := range rs {
		if _, dup := seen[r.Key]; !dup {
			seen[r.Key] = struct{}{}
			var one int
			switch err := tx.QueryRowContext(ctx, existsSQL, string(s.src), r.Key).Scan(&one); {
			case errors.Is(err, sql.ErrNoRows):
				st.Inserted++
			case err != nil:
				return st, err
			default:
				st.Replaced++
			}
		}
		seq++
		if _, err := tx.ExecContext(ctx, upsertSQL, append([]any{seq}, recordArgs(s.src, r)...)...); err != nil {
			return st, fmt.Errorf("upsert %s: %w", r.Key, err)
		}
	}

	if err := tx.QueryRowContext(ctx, countSQL, string(s.src)).Scan(&st.Total); err != nil {
		return st, err
	}
	return st, tx.Commit()
}

// ListRecords returns the most recently written records first.
func (d *DB) ListRecords(ctx context.Context, q domain.RecordsQuery) ([]domain.Record, error) {
	var (
		where []string
		args  []any
	)
	if q.Source != "" {
		where = append(where, "source = ?")
		args = append(args, string(q.Source))
	}
	if q.Category != "" {
		where = append(where, "category = ?")
		args = append(args, q.Category)
	}
	query := "SELECT " + recordColumns + " FROM records"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, q.Limit)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) GetRecord(ctx context.Context, src domain.Source, key string) (domain.Record, error) {
	r, err := scanRecord(d.db.QueryRowContext(ctx, getSQL, string(src), key))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Record{}, domain.ErrNotFound
	}
	return r, err
}

type scanner interface{ Scan(dest ...any) error }

func recordArgs(src domain.Source, r domain.Record) []any {
	return []any{
		string(src), r.Key, r.Category, r.SearchQuery,
		nullStr(r.ASIN), nullStr(r.ReviewID), nullStr(r.Author), nullBool(r.VerifiedPurchase),
		nullStr(r.ReviewDate), nullStr(r.Subreddit), r.Comments, r.Title, r.Text,
		nullF64(r.Rating), nullTime(r.CreatedAt), nullTime(&r.CollectedAt), string(r.Sentiment),
	}
}

func scanRecord(row scanner) (domain.Record, error) {
	var (
		r                                        domain.Record
		src, sentiment                           string
		asin, reviewID, author, reviewDate, subr sql.NullString
		created, collected                       sql.NullString
		verified                                 sql.NullBool
		rating                                   sql.NullFloat64
	)
	if err := row.Scan(&src, &r.Key, &r.Category, &r.SearchQuery, &asin, &reviewID, &author,
		&verified, &reviewDate, &subr, &r.Comments, &r.Title, &r.Text, &rating, &created,
		&collected, &sentiment); err != nil {
		return domain.Record{}, err
	}
	r.Source = domain.ParseSource(src)
	r.Sentiment = domain.ParseSentiment(sentiment)
	r.ASIN, r.ReviewID, r.Author = asin.String, reviewID.String, author.String
	r.ReviewDate, r.Subreddit = reviewDate.String, subr.String
	if verified.Valid {
		b := verified.Bool
		r.VerifiedPurchase = &b
	}
	if rating.Valid {
		f := rating.Float64
		r.Rating = &f
	}
	r.CreatedAt = parseTime(created)
	if t := parseTime(collected); t != nil {
		r.CollectedAt = *t
	}
	return r, nil
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullTime(p *time.Time) any {
	if p == nil || p.IsZero() {
		return nil
	}
	return p.UTC().Format(time.RFC3339Nano)
}

func parseTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}
