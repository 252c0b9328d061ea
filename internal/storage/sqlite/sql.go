package sqlite

const schemaSQL = `
CREATE TABLE IF NOT EXISTS records (
  source            TEXT    NOT NULL,
  record_key        TEXT    NOT NULL,
  seq               INTEGER NOT NULL,
  category          TEXT    NOT NULL DEFAULT '',
  search_query      TEXT    NOT NULL DEFAULT '',
  asin              TEXT,
  review_id         TEXT,
  author            TEXT,
  verified_purchase INTEGER,
  review_date       TEXT,
  subreddit         TEXT,
  comments          INTEGER NOT NULL DEFAULT 0,
  title             TEXT    NOT NULL DEFAULT '',
  body              TEXT    NOT NULL DEFAULT '',
  rating            REAL,
  created_at        TEXT,
  collected_at      TEXT,
  sentiment         TEXT    NOT NULL DEFAULT '',
  PRIMARY KEY (source, record_key)
);
CREATE INDEX IF NOT EXISTS records_source_seq ON records (source, seq);
CREATE INDEX IF NOT EXISTS records_category ON records (source, category);
`

const recordColumns = `source, record_key, category, search_query, asin, review_id, author,
  verified_purchase, review_date, subreddit, comments, title, body, rating, created_at,
  collected_at, sentiment`

// Every column is overwritten on conflict; the incoming row wins and moves to
// the end of the load order.
const upsertSQL = `
INSERT INTO records (seq, ` + recordColumns + `)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (source, record_key) DO UPDATE SET
  seq               = excluded.seq,
  category          = excluded.category,
  search_query      = excluded.search_query,
  asin              = excluded.asin,
  review_id         = excluded.review_id,
  author            = excluded.author,
  verified_purchase = excluded.verified_purchase,
  review_date       = excluded.review_date,
  subreddit         = excluded.subreddit,
  comments          = excluded.comments,
  title             = excluded.title,
  body              = excluded.body,
  rating            = excluded.rating,
  created_at        = excluded.created_at,
  collected_at      = excluded.collected_at,
  sentiment         = excluded.sentiment
`

const maxSeqSQL = `SELECT COALESCE(MAX(seq), 0) FROM records WHERE source = ?`

const countSQL = `SELECT COUNT(*) FROM records WHERE source = ?`

const existsSQL = `SELECT 1 FROM records WHERE source = ? AND record_key = ?`

const loadSQL = `SELECT ` + recordColumns + ` FROM records WHERE source = ? ORDER BY seq`

const getSQL = `SELECT ` + recordColumns + ` FROM records WHERE source = ? AND record_key = ?`
