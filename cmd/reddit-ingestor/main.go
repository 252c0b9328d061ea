package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/adapters/reddit"
	"consumer_trends/internal/app"
	"consumer_trends/internal/bootstrap"
	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
	"consumer_trends/internal/storage/tablefile"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)
	observability.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bootstrap.Finish(ctx, cfg, bootstrap.Notifier(cfg), run(ctx, cfg))
}

func run(ctx context.Context, cfg shared.Config) domain.RunResult {
	store, closeStore, err := bootstrap.Store(ctx, cfg, domain.SourceReddit, cfg.RedditStorePath)
	if err != nil {
		return app.SetupFailed(app.PipelineReddit, fmt.Errorf("open store: %w", err))
	}
	defer closeStore()

	var weekly domain.TableSink
	if cfg.RedditWeeklyPath != "" {
		weekly = tablefile.File(cfg.RedditWeeklyPath)
	}
	src := reddit.New(cfg.RedditBase, cfg.RedditUserAgent, cfg.RedditLimit, cfg.RedditDelay)
	return app.NewRedditPipeline(src, store, bootstrap.Classifier(cfg), weekly, cfg.Categories).Run(ctx)
}
