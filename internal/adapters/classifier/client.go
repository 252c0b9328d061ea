// Package classifier calls a hosted three-way sentiment model (FinBERT-style
// text classification) over HTTP.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
)

// DefaultMaxTokens is the model's input window.
const DefaultMaxTokens = 512

// labelsByIndex follows the model's output order.
var labelsByIndex = []domain.Sentiment{domain.Negative, domain.Neutral, domain.Positive}

// Client is constructed once per process and shared by every caller.
type Client struct {
	url        string
	token      string
	maxTokens  int
	httpClient *http.Client
}

func New(url, token string, maxTokens int) *Client {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Client{
		url:        url,
		token:      token,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type classifyRequest struct {
	Inputs  string         `json:"inputs"`
	Options map[string]any `json:"options,omitempty"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns Neutral for blank text without a network call. Longer text
// is cut to the token budget before it is sent.
func (c *Client) Classify(ctx context.Context, text string) (domain.Sentiment, error) {
	if strings.TrimSpace(text) == "" {
		return domain.Neutral, nil
	}
	body, err := json.Marshal(classifyRequest{
		Inputs:  Truncate(text, c.maxTokens),
		Options: map[string]any{"wait_for_model": true},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.ObserveExternal("classifier", "classify", 0, time.Since(start))
		return "", fmt.Errorf("classify request: %w", err)
	}
	defer resp.Body.Close()
	observability.ObserveExternal("classifier", "classify", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("classify: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading classify response: %w", err)
	}
	scores, err := decodeScores(raw)
	if err != nil {
		return "", err
	}
	return pick(scores)
}

// decodeScores accepts both [[{label,score}...]] and [{label,score}...].
func decodeScores(raw []byte) ([]labelScore, error) {
	var nested [][]labelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, fmt.Errorf("classify: empty response")
		}
		return nested[0], nil
	}
	var flat []labelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decoding classify response: %w", err)
	}
	return flat, nil
}

func pick(scores []labelScore) (domain.Sentiment, error) {
	if len(scores) == 0 {
		return "", fmt.Errorf("classify: no scores")
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	if l := labelOf(best.Label); l != "" {
		return l, nil
	}
	return "", fmt.Errorf("classify: unknown label %q", best.Label)
}

// labelOf maps "positive" style names and LABEL_<i> indices.
func labelOf(name string) domain.Sentiment {
	if s := domain.ParseSentiment(name); s != "" {
		return s
	}
	var i int
	if _, err := fmt.Sscanf(strings.ToUpper(name), "LABEL_%d", &i); err == nil && i >= 0 && i < len(labelsByIndex) {
		return labelsByIndex[i]
	}
	return ""
}

// Truncate keeps the first max whitespace-separated tokens of s.
func Truncate(s string, max int) string {
	fields := strings.Fields(s)
	if max <= 0 || len(fields) <= max {
		return strings.Join(fields, " ")
	}
	return strings.Join(fields[:max], " ")
}
