package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/app"
	"consumer_trends/internal/bootstrap"
	"consumer_trends/internal/shared"
	"consumer_trends/internal/storage/tablefile"
)

func main() {
	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := app.NewCrossSourceMerger(
		tablefile.File(cfg.MergeAmazonPath),
		tablefile.File(cfg.MergeTopicPath),
		tablefile.File(cfg.MergeOutputPath),
		cfg.MergeSentiment,
	)
	res := m.Run(ctx)
	log.Info().Str("output", res.Output).Str("status", string(res.Status)).Msg("merge finished")
	bootstrap.Finish(ctx, cfg, bootstrap.Notifier(cfg), res)
}
