package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"consumer_trends/internal/adapters/observability"
	"consumer_trends/internal/domain"
)

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SetupFailed reports a pipeline that could not be constructed as a fatal run,
// so it still reaches the notifier.
func SetupFailed(pipeline string, err error) domain.RunResult {
	return execute(context.Background(), pipeline, func(context.Context, zerolog.Logger, *domain.RunResult) error {
		return err
	})
}

// execute wraps one pipeline run: it assigns the run id, turns a returned
// error or a panic into a fatal result and records the outcome.
func execute(ctx context.Context, pipeline string, body func(ctx context.Context, l zerolog.Logger, res *domain.RunResult) error) (res domain.RunResult) {
	res = domain.RunResult{
		RunID:     newRunID(),
		Pipeline:  pipeline,
		StartedAt: time.Now().UTC(),
	}
	l := observability.RunLogger(log.Logger, pipeline, res.RunID)
	l.Info().Msg("pipeline started")

	defer func() {
		if r := recover(); r != nil {
			res.Finish(fmt.Errorf("panic: %v", r))
		}
		observability.ObserveRun(pipeline, string(res.Status), res.Total)
		ev := l.Info()
		if res.Status == domain.RunFatal {
			ev = l.Error().Err(res.Err)
		}
		ev.Str("status", string(res.Status)).
			Int("fetched", res.Fetched).
			Int("total", res.Total).
			Int("failures", len(res.Failures)).
			Dur("duration", res.Duration()).
			Msg("pipeline finished")
	}()

	res.Finish(body(ctx, l, &res))
	return res
}
