package app

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"consumer_trends/internal/domain"
)

// SpikeColumns is the layout of the alert table.
var SpikeColumns = []string{"category", "week", "previous_negative_share", "current_negative_share", "delta", "reviews"}

// WeeklySpikeDetector flags categories whose share of Negative labels in the
// latest ISO week rose by at least Threshold over the previous week with data.
type WeeklySpikeDetector struct {
	Threshold  float64
	MinReviews int
}

type weekKey struct{ year, week int }

func (w weekKey) less(o weekKey) bool {
	if w.year != o.year {
		return w.year < o.year
	}
	return w.week < o.week
}

func (w weekKey) String() string { return fmt.Sprintf("%d-W%02d", w.year, w.week) }

type tally struct{ negative, total int }

func (t tally) share() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.negative) / float64(t.total)
}

// Detect ignores rows without a category, a valid label or a readable date.
func (d WeeklySpikeDetector) Detect(t *domain.Table) (*domain.Table, error) {
	out := domain.NewTable(SpikeColumns...)
	if t == nil || t.Empty() {
		return out, nil
	}
	if !t.HasColumn("sentiment_label") {
		return nil, errors.New("spike detection: table has no sentiment_label column")
	}

	byCat := map[string]map[weekKey]*tally{}
	for _, row := range t.Rows {
		cat := firstCell(row, "category", "label", "category_label")
		s := domain.ParseSentiment(row["sentiment_label"])
		day, ok := rowDate(row)
		if cat == "" || s == "" || !ok {
			continue
		}
		y, w := day.ISOWeek()
		k := weekKey{y, w}
		weeks := byCat[cat]
		if weeks == nil {
			weeks = map[weekKey]*tally{}
			byCat[cat] = weeks
		}
		tl := weeks[k]
		if tl == nil {
			tl = &tally{}
			weeks[k] = tl
		}
		tl.total++
		if s == domain.Negative {
			tl.negative++
		}
	}

	cats := make([]string, 0, len(byCat))
	for c := range byCat {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	for _, cat := range cats {
		weeks := byCat[cat]
		if len(weeks) < 2 {
			continue
		}
		keys := make([]weekKey, 0, len(weeks))
		for k := range weeks {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i].less(keys[j]) })
		cur, prev := weeks[keys[len(keys)-1]], weeks[keys[len(keys)-2]]
		if cur.total < d.MinReviews {
			continue
		}
		delta := cur.share() - prev.share()
		if delta+1e-9 < d.Threshold {
			continue
		}
		out.Append(map[string]string{
			"category":                cat,
			"week":                    keys[len(keys)-1].String(),
			"previous_negative_share": formatShare(prev.share()),
			"current_negative_share":  formatShare(cur.share()),
			"delta":                   formatShare(delta),
			"reviews":                 strconv.Itoa(cur.total),
		})
	}
	return out, nil
}

// rowDate reads the review date in either its raw "... on March 3, 2023" form
// or an already normalised one, then falls back to the post creation time.
func rowDate(row map[string]string) (time.Time, bool) {
	if raw := row["review_date"]; raw != "" {
		if s := ExtractReviewDate(raw); s != "" {
			return ParseDate(s)
		}
		if t, ok := ParseDate(raw); ok {
			return t, true
		}
	}
	return ParseDate(row["created_date"])
}

func firstCell(row map[string]string, cols ...string) string {
	for _, c := range cols {
		if v := row[c]; v != "" {
			return v
		}
	}
	return ""
}

func formatShare(f float64) string { return strconv.FormatFloat(f, 'f', 4, 64) }
