package tablefile_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"consumer_trends/internal/domain"
	"consumer_trends/internal/storage/tablefile"
)

func ptr[T any](v T) *T { return &v }

func TestReadTable_Missing(t *testing.T) {
	_, err := tablefile.ReadTable(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, domain.ErrNoStore) {
		t.Fatalf("expected ErrNoStore, got %v", err)
	}
}

func TestReadTable_UnsupportedExtension(t *testing.T) {
	if _, err := tablefile.ReadTable("data.json"); err == nil {
		t.Fatal("expected error for unknown extension")
	}
}

func TestCSV_RoundTripKeepsQuotingAndOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	in := domain.NewTable("b", "a")
	in.Append(map[string]string{"a": "1", "b": `has, comma and "quotes"`})
	in.Append(map[string]string{"a": "2"})

	if err := tablefile.WriteTable(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := tablefile.ReadTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got.Columns) != 2 || got.Columns[0] != "b" {
		t.Fatalf("column order changed: %v", got.Columns)
	}
	if got.Len() != 2 || got.Get(0, "b") != `has, comma and "quotes"` || got.Get(1, "b") != "" {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
}

func TestCSV_StripsBOMAndShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bom.csv")
	if err := os.WriteFile(path, []byte("\ufeffsource,review_text,rating\nAmazon,ok\n,,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := tablefile.ReadTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !got.HasColumn("source") {
		t.Fatalf("BOM not stripped: %q", got.Columns)
	}
	if got.Len() != 1 || got.Get(0, "rating") != "" {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
}

func TestXLSX_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reddit.xlsx")
	in := domain.NewTable("post_id", "title", "sentiment_label")
	in.Append(map[string]string{"post_id": "p1", "title": "Best air fryer?", "sentiment_label": "Neutral"})
	in.Append(map[string]string{"post_id": "p2", "title": "Hate it"})

	if err := tablefile.WriteTable(path, in); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := tablefile.ReadTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Len() != 2 || got.Get(1, "post_id") != "p2" || got.Get(1, "sentiment_label") != "" {
		t.Fatalf("unexpected rows: %v", got.Rows)
	}
}

func TestStore_UpsertReplacesByKey(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "reddit.xlsx")
	s := tablefile.NewStore(path, domain.SourceReddit)

	rs, err := s.Load(ctx)
	if err != nil || len(rs) != 0 {
		t.Fatalf("empty store: %v %v", rs, err)
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	first := []domain.Record{
		{Source: domain.SourceReddit, Key: "a", Category: "air_fryer", Title: "old", Rating: ptr(3.0), CreatedAt: &created, Sentiment: domain.Neutral},
		{Source: domain.SourceReddit, Key: "b", Category: "air_fryer", Title: "keep"},
	}
	if _, err := s.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	st, err := s.Upsert(ctx, []domain.Record{
		{Source: domain.SourceReddit, Key: "a", Category: "air_fryer", Title: "new", Sentiment: domain.Negative},
		{Source: domain.SourceReddit, Key: "c", Category: "blender", Title: "fresh"},
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if st.Replaced != 1 || st.Inserted != 1 || st.Total != 3 {
		t.Fatalf("unexpected stats %+v", st)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 records, got %d", len(got))
	}
	want := []string{"b", "a", "c"}
	for i, r := range got {
		if r.Key != want[i] {
			t.Fatalf("position %d: got %q want %q", i, r.Key, want[i])
		}
	}
	if got[1].Title != "new" || got[1].Sentiment != domain.Negative {
		t.Fatalf("incoming record did not win: %+v", got[1])
	}
}

func TestStore_AmazonCSVSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "rapid.csv")
	s := tablefile.NewStore(path, domain.SourceAmazon)

	_, err := s.Upsert(ctx, []domain.Record{{
		Source: domain.SourceAmazon, Key: domain.AmazonKey("B01", "R1"), ASIN: "B01", ReviewID: "R1",
		Category: "blender", SearchQuery: "blender", Rating: ptr(5.0), VerifiedPurchase: ptr(true),
		ReviewDate: "Reviewed in the United States on March 3, 2023", Sentiment: domain.Positive,
	}})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	tbl, err := tablefile.ReadTable(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(tbl.Columns) != len(domain.AmazonColumns) {
		t.Fatalf("header %v", tbl.Columns)
	}
	for i, c := range domain.AmazonColumns {
		if tbl.Columns[i] != c {
			t.Fatalf("column %d = %q, want %q", i, tbl.Columns[i], c)
		}
	}
	if tbl.Get(0, "verified_purchase") != "True" || tbl.Get(0, "rating") != "5" {
		t.Fatalf("unexpected row %v", tbl.Rows[0])
	}
}
