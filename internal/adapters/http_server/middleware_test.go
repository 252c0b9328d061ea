package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func observedRouter(buf *bytes.Buffer) http.Handler {
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(Observe(zerolog.New(buf)))
	m.Get("/v1/records/{source}/{key}", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	m.Get("/v1/records", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"items":[],"count":0}`))
	})
	return m
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("bad log line %q: %v", buf.String(), err)
	}
	return m
}

func TestObserve_LogsRecordLookup(t *testing.T) {
	var buf bytes.Buffer
	h := observedRouter(&buf)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/records/amazon/B01:R1", nil))

	got := lastLine(t, &buf)
	if got["level"] != "error" || got["status"] != 500.0 || got["route"] != "/v1/records/{source}/{key}" {
		t.Fatalf("unexpected log %v", got)
	}
	if got["source"] != "amazon" || got["key"] != "B01:R1" || got["request_id"] == "" {
		t.Fatalf("record fields missing: %v", got)
	}
}

func TestObserve_LogsListingFilters(t *testing.T) {
	var buf bytes.Buffer
	h := observedRouter(&buf)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/records?source=reddit&category=Wearables", nil))

	got := lastLine(t, &buf)
	if got["level"] != "info" || got["status"] != 200.0 || got["bytes"] != float64(rec.Body.Len()) {
		t.Fatalf("unexpected log %v", got)
	}
	if got["source"] != "reddit" || got["category"] != "Wearables" {
		t.Fatalf("listing filters missing: %v", got)
	}
	if _, ok := got["key"]; ok {
		t.Fatalf("listing should not log a key: %v", got)
	}
}
