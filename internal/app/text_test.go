package app_test

import (
	"testing"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

func TestExtractReviewDate(t *testing.T) {
	cases := map[string]string{
		"Reviewed in the United States on March 3, 2023": "03-03-2023",
		"Reviewed in India on December 25, 2021":         "25-12-2021",
		"on  July 4,  2020":                              "04-07-2020",
		"Reviewed in the United States":                  "",
		"":                                               "",
		"nan":                                            "",
		"on Smarch 3, 2023":                              "",
	}
	for in, want := range cases {
		if got := app.ExtractReviewDate(in); got != want {
			t.Errorf("ExtractReviewDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractTrailingDate(t *testing.T) {
	if got := app.ExtractTrailingDate("Reviewed in the United States on March 3, 2023"); got != "03-03-2023" {
		t.Fatalf("got %q", got)
	}
	if got := app.ExtractTrailingDate("no marker here"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeDate(t *testing.T) {
	cases := map[string]string{
		"2023-03-03":          "03-03-2023",
		"2024-05-01 12:00:00": "01-05-2024",
		"March 3, 2023":       "03-03-2023",
		"03-03-2023":          "03-03-2023",
		"not a date":          "",
		"":                    "",
		"NaN":                 "",
	}
	for in, want := range cases {
		if got := app.NormalizeDate(in); got != want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRatingToSentiment(t *testing.T) {
	want := map[float64]domain.Sentiment{
		1: domain.Negative, 2: domain.Negative, 3: domain.Neutral, 4: domain.Positive, 5: domain.Positive,
	}
	for r, s := range want {
		if got := app.RatingToSentiment(r); got != s {
			t.Errorf("rating %v: got %q want %q", r, got, s)
		}
	}
	if got := app.RatingToSentiment(3.5); got != domain.Negative {
		t.Errorf("3.5 should fall through to Negative, got %q", got)
	}
}

func TestRatingTextToSentiment(t *testing.T) {
	cases := map[string]domain.Sentiment{
		"5":    domain.Positive,
		"4.0":  domain.Positive,
		" 3 ":  domain.Neutral,
		"1":    domain.Negative,
		"":     "",
		"five": "",
	}
	for in, want := range cases {
		if got := app.RatingTextToSentiment(in); got != want {
			t.Errorf("RatingTextToSentiment(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHTMLToText(t *testing.T) {
	in := "&lt;!-- SC_OFF --&gt;&lt;div class=\"md\"&gt;&lt;p&gt;Fan is &amp;quot;loud&amp;quot; &amp;amp; hot&lt;/p&gt;\n&lt;/div&gt;"
	if got := app.HTMLToText(in); got != `Fan is "loud" & hot` {
		t.Fatalf("HTMLToText = %q", got)
	}
	if got := app.HTMLToText(""); got != "" {
		t.Fatalf("empty input gave %q", got)
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"  line one\nline two\r\nthree ": "line one line two three",
		"a <b> c &amp; d":                "a <b> c & d",
		"use #include <stdio.h> then":    "use #include <stdio.h> then",
		"bad \xff byte":                  "bad  byte",
		"":                               "",
	}
	for in, want := range cases {
		if got := app.CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}
