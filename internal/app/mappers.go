package app

import (
	"strconv"
	"strings"
	"time"

	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
)

/********** alias registries (single source of truth) **********/

var reviewAliases = map[string][]string{
	"review_id": {"review_id", "reviewId", "id"},
	"title":     {"review_title", "title", "headline"},
	"text":      {"review_text", "text", "review_comment", "body"},
	"author":    {"reviewer_name", "author", "reviewer.name"},
	"date":      {"review_date", "date"},
	"rating":    {"rating", "review_star_rating", "stars"},
	"sentiment": {"sentiment_label", "sentiment"},
}

var postAliases = map[string][]string{
	"id":        {"id", "name"},
	"title":     {"title"},
	"text":      {"selftext", "body"},
	"html":      {"selftext_html", "body_html"},
	"subreddit": {"subreddit", "subreddit_name_prefixed"},
	"score":     {"score", "ups"},
	"comments":  {"num_comments"},
	"created":   {"created_utc", "created"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "". Numbers are formatted, so ids sent
// as JSON numbers still come through.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0" or "4 out of 5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if i := strings.IndexByte(s, ' '); i > 0 {
				s = s[:i]
			}
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

func getBool(m map[string]any, path string) *bool {
	switch v := lookupAny(m, path).(type) {
	case bool:
		return &v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return &b
		}
	}
	return nil
}

func getInt(m map[string]any, aliases map[string][]string, key string) int {
	if f := getFloatFlexible(m, aliases[key]...); f != nil {
		return int(*f)
	}
	return 0
}

/********** review mapper **********/

// mapReview flattens one product review. The key is empty when the payload
// carries no review id; such rows are still stored but never deduplicated.
func mapReview(label, asin string, r map[string]any, now time.Time) domain.Record {
	id := firstNonEmptyAlias(r, reviewAliases, "review_id")
	return domain.Record{
		Source:           domain.SourceAmazon,
		Key:              domain.AmazonKey(asin, id),
		Category:         label,
		SearchQuery:      label,
		ASIN:             asin,
		ReviewID:         id,
		Title:            firstNonEmptyAlias(r, reviewAliases, "title"),
		Text:             firstNonEmptyAlias(r, reviewAliases, "text"),
		Rating:           getFloatFlexible(r, reviewAliases["rating"]...),
		Author:           firstNonEmptyAlias(r, reviewAliases, "author"),
		VerifiedPurchase: getBool(r, "verified_purchase"),
		ReviewDate:       firstNonEmptyAlias(r, reviewAliases, "date"),
		Sentiment:        domain.ParseSentiment(firstNonEmptyAlias(r, reviewAliases, "sentiment")),
		CollectedAt:      now,
	}
}

/********** post mapper **********/

func mapPost(label string, p map[string]any, now time.Time) domain.Record {
	rec := domain.Record{
		Source:      domain.SourceReddit,
		Key:         firstNonEmptyAlias(p, postAliases, "id"),
		Category:    label,
		SearchQuery: shared.Query(label),
		Title:       firstNonEmptyAlias(p, postAliases, "title"),
		Text:        firstNonEmptyAlias(p, postAliases, "text"),
		Subreddit:   firstNonEmptyAlias(p, postAliases, "subreddit"),
		Comments:    getInt(p, postAliases, "comments"),
		CollectedAt: now,
	}
	if rec.Text == "" {
		rec.Text = HTMLToText(firstNonEmptyAlias(p, postAliases, "html"))
	}
	score := float64(getInt(p, postAliases, "score"))
	rec.Rating = &score

	var secs float64
	if f := getFloatFlexible(p, postAliases["created"]...); f != nil {
		secs = *f
	}
	created := time.Unix(int64(secs), 0).UTC()
	rec.CreatedAt = &created
	return rec
}
