package domain

import (
	"strconv"
	"strings"
	"time"
)

// Column layouts of the persisted stores.
var (
	AmazonColumns = []string{
		"source", "label", "search_keyword", "asin", "review_id", "review_title", "review_text",
		"rating", "author", "verified_purchase", "review_date", "sentiment_label",
	}
	RedditColumns = []string{
		"post_id", "source", "category_label", "search_query", "title", "selftext", "subreddit",
		"score", "num_comments", "created_date", "collected_at", "sentiment_label",
	}
	// CombinedColumns is the cross-source output layout.
	CombinedColumns = []string{"source", "review_text", "rating", "review_date", "sentiment_label", "category"}
)

const timeLayout = "2006-01-02 15:04:05"

func Columns(src Source) []string {
	if src == SourceReddit {
		return RedditColumns
	}
	return AmazonColumns
}

// RecordsToTable lays records out in the store schema of src.
func RecordsToTable(src Source, rs []Record) *Table {
	t := NewTable(Columns(src)...)
	t.Rows = make([]map[string]string, 0, len(rs))
	for _, r := range rs {
		t.Append(RecordRow(r))
	}
	return t
}

// RecordRow renders r under its own source's column names.
func RecordRow(r Record) map[string]string {
	if r.Source == SourceReddit {
		return map[string]string{
			"post_id":         r.Key,
			"source":          string(r.Source),
			"category_label":  r.Category,
			"search_query":    r.SearchQuery,
			"title":           r.Title,
			"selftext":        r.Text,
			"subreddit":       r.Subreddit,
			"score":           formatFloat(r.Rating),
			"num_comments":    strconv.Itoa(r.Comments),
			"created_date":    formatTime(r.CreatedAt),
			"collected_at":    formatTime(&r.CollectedAt),
			"sentiment_label": string(r.Sentiment),
		}
	}
	return map[string]string{
		"source":            string(SourceAmazon),
		"label":             r.Category,
		"search_keyword":    r.SearchQuery,
		"asin":              r.ASIN,
		"review_id":         r.ReviewID,
		"review_title":      r.Title,
		"review_text":       r.Text,
		"rating":            formatFloat(r.Rating),
		"author":            r.Author,
		"verified_purchase": formatBool(r.VerifiedPurchase),
		"review_date":       r.ReviewDate,
		"sentiment_label":   string(r.Sentiment),
	}
}

// RecordFromRow is the inverse of RecordRow. Malformed cells become zero values.
func RecordFromRow(src Source, row map[string]string) Record {
	if src == SourceReddit {
		r := Record{
			Source:      SourceReddit,
			Key:         row["post_id"],
			Category:    row["category_label"],
			SearchQuery: row["search_query"],
			Title:       row["title"],
			Text:        row["selftext"],
			Subreddit:   row["subreddit"],
			Rating:      parseFloat(row["score"]),
			CreatedAt:   parseTime(row["created_date"]),
			Sentiment:   ParseSentiment(row["sentiment_label"]),
		}
		r.Comments, _ = strconv.Atoi(strings.TrimSpace(row["num_comments"]))
		if t := parseTime(row["collected_at"]); t != nil {
			r.CollectedAt = *t
		}
		return r
	}
	asin, id := row["asin"], row["review_id"]
	return Record{
		Source:           SourceAmazon,
		Key:              AmazonKey(asin, id),
		Category:         row["label"],
		SearchQuery:      row["search_keyword"],
		ASIN:             asin,
		ReviewID:         id,
		Title:            row["review_title"],
		Text:             row["review_text"],
		Rating:           parseFloat(row["rating"]),
		Author:           row["author"],
		VerifiedPurchase: parseBool(row["verified_purchase"]),
		ReviewDate:       row["review_date"],
		Sentiment:        ParseSentiment(row["sentiment_label"]),
	}
}

// TableToRecords reads rows laid out in the store schema of src.
func TableToRecords(src Source, t *Table) []Record {
	out := make([]Record, 0, t.Len())
	for _, row := range t.Rows {
		out = append(out, RecordFromRow(src, row))
	}
	return out
}

func formatFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func formatBool(b *bool) string {
	if b == nil {
		return ""
	}
	if *b {
		return "True"
	}
	return "False"
}

func parseBool(s string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil
	}
	return &b
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{timeLayout, time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
