// Package rapidapi talks to the real-time Amazon product search and review API.
package rapidapi

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"consumer_trends/internal/adapters/httpjson"
)

const (
	searchPage = 1
	reviewPage = 1
)

type Client struct {
	base    string
	country string
	g       *httpjson.Getter
}

// New returns a client authenticated with the x-rapidapi-* headers. delay is
// the flat pause between consecutive calls.
func New(base, host, key, country string, delay time.Duration) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if country == "" {
		country = "US"
	}
	return &Client{
		base:    strings.TrimRight(base, "/"),
		country: country,
		g: httpjson.New("rapidapi", delay, map[string]string{
			"x-rapidapi-key":  key,
			"x-rapidapi-host": host,
			"User-Agent":      "consumer-trends/1.0",
		}),
	}, nil
}

type envelope struct {
	Data struct {
		Products []map[string]any `json:"products"`
		Reviews  []map[string]any `json:"reviews"`
	} `json:"data"`
}

func (c *Client) SearchProducts(ctx context.Context, query string) ([]map[string]any, error) {
	q := url.Values{
		"query":   {query},
		"page":    {strconv.Itoa(searchPage)},
		"country": {c.country},
		"sort_by": {"RELEVANCE"},
	}
	var env envelope
	if err := c.g.Get(ctx, "search", c.base+"/search", q, &env); err != nil {
		return nil, err
	}
	return env.Data.Products, nil
}

func (c *Client) ProductReviews(ctx context.Context, asin string) ([]map[string]any, error) {
	q := url.Values{
		"asin":    {asin},
		"country": {c.country},
		"page":    {strconv.Itoa(reviewPage)},
		"sort_by": {"TOP_REVIEWS"},
	}
	var env envelope
	if err := c.g.Get(ctx, "product-reviews", c.base+"/product-reviews", q, &env); err != nil {
		return nil, err
	}
	return env.Data.Reviews, nil
}
