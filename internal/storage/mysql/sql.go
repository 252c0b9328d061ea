package mysql

import _ "embed"

//go:embed schema.sql
var schemaSQL string

// Note: `text` is reserved; keep it quoted everywhere.
const recordColumns = "source, record_key, category, search_query, asin, review_id, author, " +
	"verified_purchase, review_date, subreddit, comments, title, `text`, rating, created_at, " +
	"collected_at, sentiment"

// Last write wins on every column; seq moves the row to the end of the load order.
const upsertRecordSQL = "INSERT INTO records (seq, " + recordColumns + ")\n" +
	"VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)\n" +
	"ON DUPLICATE KEY UPDATE\n" +
	"  seq               = VALUES(seq),\n" +
	"  category          = VALUES(category),\n" +
	"  search_query      = VALUES(search_query),\n" +
	"  asin              = VALUES(asin),\n" +
	"  review_id         = VALUES(review_id),\n" +
	"  author            = VALUES(author),\n" +
	"  verified_purchase = VALUES(verified_purchase),\n" +
	"  review_date       = VALUES(review_date),\n" +
	"  subreddit         = VALUES(subreddit),\n" +
	"  comments          = VALUES(comments),\n" +
	"  title             = VALUES(title),\n" +
	"  `text`            = VALUES(`text`),\n" +
	"  rating            = VALUES(rating),\n" +
	"  created_at        = VALUES(created_at),\n" +
	"  collected_at      = VALUES(collected_at),\n" +
	"  sentiment         = VALUES(sentiment)\n"

const maxSeqSQL = `SELECT COALESCE(MAX(seq), 0) FROM records WHERE source = ?`

const countSQL = `SELECT COUNT(*) FROM records WHERE source = ?`

const existsSQL = `SELECT 1 FROM records WHERE source = ? AND record_key = ?`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const loadSQL = "SELECT " + recordColumns + " FROM records WHERE source = ? ORDER BY seq"

const getRecordSQL = "SELECT " + recordColumns + " FROM records WHERE source = ? AND record_key = ?"
