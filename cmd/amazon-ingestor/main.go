package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/adapters/rapidapi"
	"consumer_trends/internal/app"
	"consumer_trends/internal/bootstrap"
	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
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
	api, err := rapidapi.New(cfg.RapidBase, cfg.RapidHost, cfg.RapidKey, cfg.RapidCountry, cfg.RapidDelay)
	if err != nil {
		return app.SetupFailed(app.PipelineAmazon, fmt.Errorf("rapidapi client: %w", err))
	}
	store, closeStore, err := bootstrap.Store(ctx, cfg, domain.SourceAmazon, cfg.AmazonStorePath)
	if err != nil {
		return app.SetupFailed(app.PipelineAmazon, fmt.Errorf("open store: %w", err))
	}
	defer closeStore()

	detector := app.WeeklySpikeDetector{Threshold: cfg.SpikeThreshold, MinReviews: cfg.SpikeMinReviews}
	return app.NewAmazonPipeline(api, store, bootstrap.Classifier(cfg), detector, cfg.Categories, cfg.ProductsPerCat).Run(ctx)
}
