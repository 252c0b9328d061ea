package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"consumer_trends/internal/domain"
)

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valBool(p *bool) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valTime(p *time.Time) any {
	if p == nil || p.IsZero() {
		return nil
	}
	return p.UTC()
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// Migrate creates the records table when it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("mysql schema: %w", err)
	}
	return nil
}

// Store binds the repo to the cumulative store of one source.
func (r *Repo) Store(src domain.Source) *Store { return &Store{db: r.db, src: src} }

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
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Upsert runs in one transaction. The empty key is stored like any other.
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
	for _, rec := range rs {
		if _, dup := seen[rec.Key]; !dup {
			seen[rec.Key] = struct{}{}
			var one int
			err := tx.QueryRowContext(ctx, existsSQL, string(s.src), rec.Key).Scan(&one)
			switch {
			case errors.Is(err, sql.ErrNoRows):
				st.Inserted++
			case err != nil:
				return st, err
			default:
				st.Replaced++
			}
		}
		seq++
		if _, err := tx.ExecContext(ctx, upsertRecordSQL,
			seq,
			string(s.src),
			rec.Key,
			rec.Category,
			rec.SearchQuery,
			valStr(rec.ASIN),
			valStr(rec.ReviewID),
			valStr(rec.Author),
			valBool(rec.VerifiedPurchase),
			valStr(rec.ReviewDate),
			valStr(rec.Subreddit),
			rec.Comments,
			rec.Title,
			rec.Text,
			valF64(rec.Rating),
			valTime(rec.CreatedAt),
			valTime(&rec.CollectedAt),
			string(rec.Sentiment),
		); err != nil {
			return st, fmt.Errorf("upsert %s: %w", rec.Key, err)
		}
	}

	if err := tx.QueryRowContext(ctx, countSQL, string(s.src)).Scan(&st.Total); err != nil {
		return st, err
	}
	return st, tx.Commit()
}

func (r *Repo) GetRecord(ctx context.Context, src domain.Source, key string) (domain.Record, error) {
	rec, err := scanRecord(r.db.QueryRowContext(ctx, getRecordSQL, string(src), key))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Record{}, domain.ErrNotFound
		}
		return domain.Record{}, err
	}
	return rec, nil
}

func (r *Repo) ListRecords(ctx context.Context, q domain.RecordsQuery) ([]domain.Record, error) {
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
	query += " ORDER BY updated_at DESC, seq DESC LIMIT ?"
	args = append(args, q.Limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanRecord(row rowScanner) (domain.Record, error) {
	var rec domain.Record
	var (
		src, sentiment sql.NullString
		asin           sql.NullString
		reviewID       sql.NullString
		author         sql.NullString
		verified       sql.NullBool
		reviewDate     sql.NullString
		subreddit      sql.NullString
		rating         sql.NullFloat64
		createdAt      sql.NullTime
		collectedAt    sql.NullTime
	)
	if err := row.Scan(
		&src,
		&rec.Key,
		&rec.Category,
		&rec.SearchQuery,
		&asin,
		&reviewID,
		&author,
		&verified,
		&reviewDate,
		&subreddit,
		&rec.Comments,
		&rec.Title,
		&rec.Text,
		&rating,
		&createdAt,
		&collectedAt,
		&sentiment,
	); err != nil {
		return domain.Record{}, err
	}

	rec.Source = domain.ParseSource(src.String)
	rec.Sentiment = domain.ParseSentiment(sentiment.String)
	rec.ASIN = asin.String
	rec.ReviewID = reviewID.String
	rec.Author = author.String
	rec.ReviewDate = reviewDate.String
	rec.Subreddit = subreddit.String
	if verified.Valid {
		b := verified.Bool
		rec.VerifiedPurchase = &b
	}
	if rating.Valid {
		f := rating.Float64
		rec.Rating = &f
	}
	if createdAt.Valid {
		t := createdAt.Time.UTC()
		rec.CreatedAt = &t
	}
	if collectedAt.Valid {
		rec.CollectedAt = collectedAt.Time.UTC()
	}
	return rec, nil
}
