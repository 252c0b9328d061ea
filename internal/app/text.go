package app

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"consumer_trends/internal/domain"
)

var stripPolicy = bluemonday.StrictPolicy()

// CleanText flattens line breaks, drops invalid UTF-8 and trims. Entities are
// decoded so "&amp;" reads as "&"; literal angle brackets are text and stay.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.ToValidUTF8(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// HTMLToText reduces an entity-escaped HTML body, as the search API sends in
// selftext_html, to its plain text.
func HTMLToText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(html.UnescapeString(s))))
}

// RatingToSentiment maps a star rating: >=4 Positive, 3 Neutral, otherwise Negative.
func RatingToSentiment(r float64) domain.Sentiment {
	switch {
	case r >= 4:
		return domain.Positive
	case r == 3:
		return domain.Neutral
	default:
		return domain.Negative
	}
}

// RatingTextToSentiment parses a rating cell; unparseable or empty cells map to "".
func RatingTextToSentiment(s string) domain.Sentiment {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return ""
	}
	return RatingToSentiment(f)
}
