package domain

import (
	"strings"
	"time"
)

type Source string

const (
	SourceAmazon Source = "Amazon"
	SourceReddit Source = "Reddit"
)

// ParseSource accepts any casing; unknown values return "".
func ParseSource(s string) Source {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "amazon":
		return SourceAmazon
	case "reddit":
		return SourceReddit
	}
	return ""
}

type Sentiment string

const (
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
	Positive Sentiment = "Positive"
)

// ParseSentiment is case-insensitive; anything outside the three labels returns "".
func ParseSentiment(s string) Sentiment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "negative":
		return Negative
	case "neutral":
		return Neutral
	case "positive":
		return Positive
	}
	return ""
}

func (s Sentiment) Valid() bool { return s == Negative || s == Neutral || s == Positive }

// Record is one review or post, flattened the way it is persisted.
// Fields that only one source carries stay zero for the other.
type Record struct {
	Source      Source
	Key         string // ASIN:review_id for Amazon, post id for Reddit
	Category    string
	SearchQuery string

	// Amazon
	ASIN             string
	ReviewID         string
	Author           string
	VerifiedPurchase *bool
	ReviewDate       string // raw, e.g. "Reviewed in the United States on March 3, 2023"

	// Reddit
	Subreddit string
	Comments  int

	Title     string
	Text      string
	Rating    *float64 // star rating (Amazon) or score (Reddit)
	CreatedAt *time.Time
	// CollectedAt is when this copy of the record was fetched.
	CollectedAt time.Time
	Sentiment   Sentiment
}

// AmazonKey builds the unique key for a product review.
func AmazonKey(asin, reviewID string) string {
	if asin == "" || reviewID == "" {
		return ""
	}
	return asin + ":" + reviewID
}

// CombinedText joins title and body with sep, dropping empty halves.
func (r Record) CombinedText(sep string) string {
	t, b := strings.TrimSpace(r.Title), strings.TrimSpace(r.Text)
	switch {
	case t == "":
		return b
	case b == "":
		return t
	}
	return t + sep + b
}
