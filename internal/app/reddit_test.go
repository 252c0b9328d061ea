package app_test

import (
	"context"
	"errors"
	"testing"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

func redditFixture() *fakePosts {
	return &fakePosts{
		posts: map[string][]map[string]any{
			"Kitchen Appliances": {
				{"id": "p1", "title": "Mixer\nbroke", "selftext": "Motor died &amp; smelled <burnt>", "subreddit": "Cooking", "score": 12.0, "num_comments": 3.0, "created_utc": 1714989600.0},
				{"id": "p2", "title": "Link only", "selftext": "   ", "subreddit": "Cooking"},
				{"id": "p5", "title": "Garbled", "selftext": "\xff\xfe", "subreddit": "Cooking"},
			},
			"Wearables": {
				{"id": "p3", "title": "Love my watch", "selftext": "battery lasts", "subreddit": "smartwatch"},
				{"id": "p4", "title": "Which band", "selftext": "model unavailable please", "subreddit": "smartwatch"},
				{"id": "p6", "title": "Strap", "selftext": "", "selftext_html": "&lt;div class=\"md\"&gt;&lt;p&gt;Strap is fine&lt;/p&gt;&lt;/div&gt;", "subreddit": "smartwatch"},
			},
		},
		fail: map[string]error{"Software": errors.New("status 429")},
	}
}

func TestRedditPipeline_FetchLabelAndStore(t *testing.T) {
	src := redditFixture()
	store := &memStore{recs: []domain.Record{{Source: domain.SourceReddit, Key: "p3", Title: "old copy"}}}
	cls := &fakeClassifier{fail: "model unavailable"}
	weekly := &memTable{}
	p := app.NewRedditPipeline(src, store, cls, weekly, []string{"Kitchen_Appliances", "Software", "Wearables"})

	res := p.Run(context.Background())

	if res.Status != domain.RunPartial {
		t.Fatalf("status %q: %v", res.Status, res.Err)
	}
	if want := []string{"Kitchen Appliances", "Software", "Wearables"}; len(src.queries) != 3 || src.queries[0] != want[0] {
		t.Fatalf("queries %v, want %v", src.queries, want)
	}
	if len(res.Failures) != 2 || res.Failures[0].Key != "Software" || res.Failures[1].Scope != "classify" {
		t.Fatalf("unexpected failures %v", res.Failures)
	}
	if res.Fetched != 4 || res.Total != 4 || res.Merge.Replaced != 1 {
		t.Fatalf("fetched %d total %d merge %+v", res.Fetched, res.Total, res.Merge)
	}

	byKey := map[string]domain.Record{}
	for _, r := range store.recs {
		byKey[r.Key] = r
	}
	for _, id := range []string{"p2", "p5"} {
		if _, ok := byKey[id]; ok {
			t.Fatalf("post %s has no body text after cleaning and should be dropped", id)
		}
	}
	if byKey["p6"].Text != "Strap is fine" {
		t.Fatalf("html body should back an empty selftext: %+v", byKey["p6"])
	}
	p1 := byKey["p1"]
	if p1.Title != "Mixer broke" || p1.Text != "Motor died & smelled <burnt>" || p1.Sentiment != domain.Negative {
		t.Fatalf("unexpected p1 %+v", p1)
	}
	if p1.Category != "Kitchen_Appliances" || p1.SearchQuery != "Kitchen Appliances" || p1.Comments != 3 {
		t.Fatalf("unexpected p1 metadata %+v", p1)
	}
	if p1.CreatedAt == nil || p1.CreatedAt.Unix() != 1714989600 {
		t.Fatalf("created time lost: %v", p1.CreatedAt)
	}
	if byKey["p3"].Title != "Love my watch" || byKey["p3"].Sentiment != domain.Positive {
		t.Fatalf("incoming post should replace stored copy: %+v", byKey["p3"])
	}
	if byKey["p4"].Sentiment != domain.Neutral {
		t.Fatalf("classifier failure should leave Neutral: %+v", byKey["p4"])
	}
	if cls.texts[0] != "Mixer broke. Motor died & smelled <burnt>" {
		t.Fatalf("title and body should be joined with '. ': %q", cls.texts[0])
	}

	if weekly.written == nil || weekly.written.Len() != 4 || weekly.written.Columns[0] != "post_id" {
		t.Fatalf("weekly snapshot not written as expected: %+v", weekly.written)
	}

	if s, _, _ := app.Message(res); s != "Reddit Data Failed" {
		t.Fatalf("subject %q", s)
	}
}

func TestRedditPipeline_Success(t *testing.T) {
	src := &fakePosts{posts: map[string][]map[string]any{
		"Footwear": {{"id": "x", "title": "Great boots", "selftext": "warm"}},
	}}
	p := app.NewRedditPipeline(src, &memStore{}, &fakeClassifier{}, nil, []string{"Footwear"})
	res := p.Run(context.Background())
	if res.Status != domain.RunSuccess {
		t.Fatalf("status %q: %v", res.Status, res.Err)
	}
	if s, b, _ := app.Message(res); s != "Reddit Data Extracted Successfully" || b != "Pipeline completed successfully" {
		t.Fatalf("got %q / %q", s, b)
	}
}

func TestRedditPipeline_SnapshotFailureIsFatal(t *testing.T) {
	p := app.NewRedditPipeline(&fakePosts{}, &memStore{}, &fakeClassifier{}, &memTable{err: errors.New("read-only")}, []string{"Footwear"})
	res := p.Run(context.Background())
	if res.Status != domain.RunFatal {
		t.Fatalf("expected fatal, got %+v", res)
	}
}

func TestRedditPipeline_RequiresClassifier(t *testing.T) {
	res := app.NewRedditPipeline(&fakePosts{}, &memStore{}, nil, nil, nil).Run(context.Background())
	if res.Status != domain.RunFatal {
		t.Fatalf("expected fatal, got %+v", res)
	}
}
