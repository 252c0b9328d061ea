// Package reddit queries the public search listing endpoint.
package reddit

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"consumer_trends/internal/adapters/httpjson"
)

type Client struct {
	base  string
	limit int
	g     *httpjson.Getter
}

func New(base, userAgent string, limit int, delay time.Duration) *Client {
	if limit <= 0 {
		limit = 100
	}
	return &Client{
		base:  strings.TrimRight(base, "/"),
		limit: limit,
		g:     httpjson.New("reddit", delay, map[string]string{"User-Agent": userAgent}),
	}
}

type listing struct {
	Data struct {
		Children []struct {
			Kind string         `json:"kind"`
			Data map[string]any `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// Search returns the post objects of one listing page for query.
func (c *Client) Search(ctx context.Context, query string) ([]map[string]any, error) {
	q := url.Values{
		"q":     {query},
		"limit": {strconv.Itoa(c.limit)},
	}
	var l listing
	if err := c.g.Get(ctx, "search", c.base+"/search.json", q, &l); err != nil {
		return nil, err
	}
	out := make([]map[string]any, 0, len(l.Data.Children))
	for _, ch := range l.Data.Children {
		if ch.Data != nil {
			out = append(out, ch.Data)
		}
	}
	return out, nil
}
