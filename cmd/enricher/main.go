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
	observability.Serve()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// a nil classifier fails the run and is reported like any other failure
	e := app.NewEnricher(tablefile.File(cfg.EnrichInputPath), tablefile.File(cfg.EnrichOutputPath), bootstrap.Classifier(cfg))
	bootstrap.Finish(ctx, cfg, bootstrap.Notifier(cfg), e.Run(ctx))
}
