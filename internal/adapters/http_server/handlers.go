package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
)

// RecordQueries is the read side the handlers need; app.QueryService implements it.
type RecordQueries interface {
	GetRecord(ctx context.Context, src domain.Source, key string) (domain.Record, error)
	ListRecords(ctx context.Context, q domain.RecordsQuery) ([]domain.Record, error)
}

type Handlers struct{ Q RecordQueries }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// recordView is the wire shape of a record.
type recordView struct {
	Source           string     `json:"source"`
	Key              string     `json:"key"`
	Category         string     `json:"category"`
	SearchQuery      string     `json:"search_query,omitempty"`
	ASIN             string     `json:"asin,omitempty"`
	ReviewID         string     `json:"review_id,omitempty"`
	Author           string     `json:"author,omitempty"`
	VerifiedPurchase *bool      `json:"verified_purchase,omitempty"`
	ReviewDate       string     `json:"review_date,omitempty"`
	Subreddit        string     `json:"subreddit,omitempty"`
	Comments         int        `json:"num_comments,omitempty"`
	Title            string     `json:"title"`
	Text             string     `json:"text"`
	Rating           *float64   `json:"rating,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty"`
	CollectedAt      *time.Time `json:"collected_at,omitempty"`
	Sentiment        string     `json:"sentiment,omitempty"`
}

type listView struct {
	Items []recordView `json:"items"`
	Count int          `json:"count"`
}

func toView(r domain.Record) recordView {
	v := recordView{
		Source:           string(r.Source),
		Key:              r.Key,
		Category:         r.Category,
		SearchQuery:      r.SearchQuery,
		ASIN:             r.ASIN,
		ReviewID:         r.ReviewID,
		Author:           r.Author,
		VerifiedPurchase: r.VerifiedPurchase,
		ReviewDate:       r.ReviewDate,
		Subreddit:        r.Subreddit,
		Comments:         r.Comments,
		Title:            r.Title,
		Text:             r.Text,
		Rating:           r.Rating,
		CreatedAt:        r.CreatedAt,
		Sentiment:        string(r.Sentiment),
	}
	if !r.CollectedAt.IsZero() {
		t := r.CollectedAt
		v.CollectedAt = &t
	}
	return v
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/records", h.listRecords)
	s.mux.Get("/v1/records/{source}/{key}", h.getRecord)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to write body")
	}
}

func (h *Handlers) getRecord(w http.ResponseWriter, r *http.Request) {
	src := domain.ParseSource(chi.URLParam(r, "source"))
	if src == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid source", "source must be amazon or reddit")
		return
	}
	rec, err := h.Q.GetRecord(r.Context(), src, chi.URLParam(r, "key"))
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "record not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("getRecord failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	writeJSON(w, r, toView(rec))
}

func (h *Handlers) listRecords(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	q := domain.RecordsQuery{Category: qs.Get("category"), Limit: app.DefaultLimit}

	if s := qs.Get("source"); s != "" {
		if q.Source = domain.ParseSource(s); q.Source == "" {
			writeProblem(w, http.StatusBadRequest, "Invalid source", "source must be amazon or reddit")
			return
		}
	}
	if ls := qs.Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > app.MaxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit",
				"limit must be an integer between 1 and "+strconv.Itoa(app.MaxLimit))
			return
		}
		q.Limit = l
	}

	rs, err := h.Q.ListRecords(r.Context(), q)
	if err != nil {
		log.Error().Err(err).Msg("listRecords failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
		return
	}
	out := listView{Items: make([]recordView, 0, len(rs)), Count: len(rs)}
	for _, rec := range rs {
		out.Items = append(out.Items, toView(rec))
	}
	writeJSON(w, r, out)
}
