// Package httpjson is the shared GET-and-decode path for the external source
// APIs: a flat inter-call delay, status-to-sentinel mapping, and metrics.
package httpjson

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
)

type Getter struct {
	service string
	hc      *http.Client
	rl      *rate.Limiter
	headers http.Header
}

// New builds a Getter that waits delay between consecutive calls. No retries:
// a failed call is reported to the caller, which decides whether to skip it.
func New(service string, delay time.Duration, headers map[string]string) *Getter {
	h := make(http.Header, len(headers)+1)
	for k, v := range headers {
		h.Set(k, v)
	}
	h.Set("Accept", "application/json")

	lim := rate.NewLimiter(rate.Inf, 1)
	if delay > 0 {
		lim = rate.NewLimiter(rate.Every(delay), 1)
	}
	return &Getter{
		service: service,
		hc:      &http.Client{Timeout: 30 * time.Second},
		rl:      lim,
		headers: h,
	}
}

// Get issues GET base+path?q and decodes the JSON body into out. endpoint is
// the metrics label.
func (g *Getter) Get(ctx context.Context, endpoint, rawURL string, q url.Values, out any) error {
	if err := g.rl.Wait(ctx); err != nil {
		return err
	}

	u := rawURL
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%s: new request: %w", g.service, err)
	}
	for k, vs := range g.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := g.hc.Do(req)
	if err != nil {
		observability.ObserveExternal(g.service, endpoint, 0, time.Since(start))
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %s: %w", g.service, endpoint, err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal(g.service, endpoint, resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode %s: %w", g.service, endpoint, err)
		}
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("%s: %s: %w", g.service, endpoint, domain.ErrNotFound)
	case http.StatusUnauthorized:
		return fmt.Errorf("%s: %s: %w", g.service, endpoint, domain.ErrUnauthorized)
	case http.StatusForbidden:
		return fmt.Errorf("%s: %s: %w", g.service, endpoint, domain.ErrForbidden)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%s: %s: %w", g.service, endpoint, domain.ErrRateLimited)
	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: %s: bad status %d: %s", g.service, endpoint, resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
