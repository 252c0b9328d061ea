// Package bootstrap wires configuration to concrete adapters for the batch
// binaries and the API.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"consumer_trends/internal/adapters/classifier"
	"consumer_trends/internal/adapters/notify"
	"consumer_trends/internal/adapters/observability"
	redisad "consumer_trends/internal/adapters/redis"
	"consumer_trends/internal/app"
	"consumer_trends/internal/domain"
	"consumer_trends/internal/shared"
	mysqlrepo "consumer_trends/internal/storage/mysql"
	"consumer_trends/internal/storage/sqlite"
	"consumer_trends/internal/storage/tablefile"
)

const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMySQL  = "mysql"
)

// Store returns the cumulative store for src. filePath is used by the file
// backend only. The returned func releases the underlying connection.
func Store(ctx context.Context, cfg shared.Config, src domain.Source, filePath string) (domain.RecordStore, func(), error) {
	switch cfg.StoreBackend {
	case "", BackendFile:
		return tablefile.NewStore(filePath, src), func() {}, nil
	case BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db.Store(src), func() { _ = db.Close() }, nil
	case BackendMySQL:
		repo, closeFn, err := openMySQL(ctx, cfg.MySQLDSN)
		if err != nil {
			return nil, nil, err
		}
		return repo.Store(src), closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}

// Reader returns the read side for the API. The file backend has none.
func Reader(ctx context.Context, cfg shared.Config) (domain.RecordReader, func(), error) {
	switch cfg.StoreBackend {
	case BackendSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { _ = db.Close() }, nil
	case BackendMySQL:
		return openMySQL(ctx, cfg.MySQLDSN)
	default:
		return nil, nil, fmt.Errorf("STORE_BACKEND %q cannot serve queries", cfg.StoreBackend)
	}
}

func openMySQL(ctx context.Context, dsn string) (*mysqlrepo.Repo, func(), error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("db.Ping: %w", err)
	}
	repo := mysqlrepo.New(db)
	if err := repo.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info().Msg("database connection ok")
	return repo, func() { _ = db.Close() }, nil
}

// Cache returns a Redis cache named name, or nil when REDIS_ADDR is unset.
func Cache(cfg shared.Config, name string) *redisad.Cache {
	if cfg.RedisAddr == "" {
		return nil
	}
	return redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, name)
}

// Classifier returns nil when no model endpoint is configured. Labels are
// memoised in Redis when a cache is available.
func Classifier(cfg shared.Config) domain.Classifier {
	if cfg.ClassifierURL == "" {
		return nil
	}
	cls := classifier.New(cfg.ClassifierURL, cfg.ClassifierToken, cfg.ClassifierMaxTokens)
	if c := Cache(cfg, "sentiment"); c != nil {
		return classifier.NewCached(cls, c, cfg.CacheTTL, cfg.ClassifierMaxTokens)
	}
	return cls
}

// Notifier mails when SMTP is configured and logs otherwise.
func Notifier(cfg shared.Config) domain.Notifier {
	if cfg.SMTPHost == "" {
		return notify.LogNotifier{L: log.Logger}
	}
	m, err := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom, cfg.MailTo)
	if err != nil {
		log.Warn().Err(err).Msg("mailer misconfigured, logging notifications instead")
		return notify.LogNotifier{L: log.Logger}
	}
	return m
}

// notifyTimeout bounds the notification sent after a run.
const notifyTimeout = 30 * time.Second

// Finish notifies and pushes batch metrics. A fatal run is reported, not
// turned into a non-zero exit. The notice still goes out after ctx was
// cancelled by a signal.
func Finish(ctx context.Context, cfg shared.Config, n domain.Notifier, res domain.RunResult) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()
	if err := app.Notify(ctx, n, res); err != nil {
		log.Error().Err(err).Str("pipeline", res.Pipeline).Msg("notification failed")
	}
	if err := observability.Push(cfg.PushgatewayURL, res.Pipeline, res.RunID); err != nil {
		log.Warn().Err(err).Msg("metrics push failed")
	}
}
