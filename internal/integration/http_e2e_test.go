//go:build integration

package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "consumer_trends/internal/adapters/http_server"
	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
	mysqlrepo "consumer_trends/internal/storage/mysql"
)

func pfloat(f float64) *float64 { return &f }

// ---------- the test ----------
func TestHTTP_EndToEnd_RedditRecord(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=trends",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "trends")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := mysqlrepo.New(db)
	ctx := context.Background()
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	created := time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)
	if _, err := repo.Store(domain.SourceReddit).Upsert(ctx, []domain.Record{{
		Source: domain.SourceReddit, Key: "p1", Category: "Wearables", SearchQuery: "Wearables",
		Title: "Watch strap snapped", Text: "after two days", Subreddit: "smartwatch",
		Rating: pfloat(17), Comments: 4, CreatedAt: &created, CollectedAt: created.Add(time.Hour),
		Sentiment: domain.Negative,
	}}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	// Real router and query service, no cache
	srv := server.New(5 * time.Second)
	srv.MountHandlers(&server.Handlers{Q: app.NewQueryService(repo, nil, time.Minute)})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	res, err := http.Get(ts.URL + "/v1/records/reddit/p1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status %d", res.StatusCode)
	}

	var body struct {
		Key       string    `json:"key"`
		Source    string    `json:"source"`
		Sentiment string    `json:"sentiment"`
		Comments  int       `json:"num_comments"`
		CreatedAt time.Time `json:"created_at"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Key != "p1" || body.Source != "Reddit" || body.Sentiment != "Negative" || body.Comments != 4 || !body.CreatedAt.Equal(created) {
		t.Fatalf("unexpected body: %+v", body)
	}

	list, err := http.Get(ts.URL + "/v1/records?source=reddit&category=Wearables")
	if err != nil {
		t.Fatalf("GET list: %v", err)
	}
	defer list.Body.Close()
	var page struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(list.Body).Decode(&page); err != nil || page.Count != 1 {
		t.Fatalf("unexpected list: %+v %v", page, err)
	}
}
