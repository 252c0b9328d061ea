package app

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical day-month-year output format.
const DateLayout = "02-01-2006"

var (
	reviewDateRe   = regexp.MustCompile(`on\s+([A-Za-z]+\s+\d{1,2},\s+\d{4})`)
	trailingDateRe = regexp.MustCompile(`on (.*)`)
)

// ExtractReviewDate pulls "<Month> <d>, <yyyy>" following "on" out of s and
// returns it as DD-MM-YYYY. Anything else yields "".
func ExtractReviewDate(s string) string {
	m := reviewDateRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	t, err := time.Parse("January 2, 2006", strings.Join(strings.Fields(m[1]), " "))
	if err != nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ExtractTrailingDate takes whatever follows the first "on " and parses it
// leniently.
func ExtractTrailingDate(s string) string {
	m := trailingDateRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return NormalizeDate(m[1])
}

// NormalizeDate parses s in any common layout and reformats it to DD-MM-YYYY.
// Empty or unparseable input yields "".
func NormalizeDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate accepts the canonical DD-MM-YYYY form first, then any layout
// dateparse recognises (month-first for ambiguous numeric dates).
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "none") {
		return time.Time{}, false
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, true
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
