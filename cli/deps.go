package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/goto/salt/log"
	"github.com/goto/sieve/core/savedsearch"
	"github.com/goto/sieve/internal/store/file"
	"github.com/goto/sieve/internal/store/memory"
	"github.com/goto/sieve/internal/store/postgres"
	"github.com/goto/sieve/internal/store/redis"
	"github.com/goto/sieve/pkg/statsd"
)

const (
	storeDriverMemory   = "memory"
	storeDriverFile     = "file"
	storeDriverPostgres = "postgres"
	storeDriverRedis    = "redis"
)

func initLogger(logLevel string) *log.Logrus {
	logger := log.NewLogrus(
		log.LogrusWithLevel(logLevel),
		log.LogrusWithWriter(os.Stderr),
	)
	return logger
}

func initStatsdReporter(logger log.Logger, cfg Config) *statsd.Reporter {
	reporter, err := statsd.Init(logger, cfg.StatsD)
	if err != nil {
		logger.Warn("failed to init statsd reporter, metrics are disabled", "error", err)
		return nil
	}
	return reporter
}

// openStore returns the configured saved search store and a function
// releasing its resources.
func openStore(ctx context.Context, logger log.Logger, cfg StoreConfig) (savedsearch.Store, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Driver {
	case storeDriverMemory:
		return memory.New(), noop, nil

	case "", storeDriverFile:
		s, err := file.New(cfg.File.Dir)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil

	case storeDriverPostgres:
		pgClient, err := postgres.NewClient(cfg.Postgres)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("connected to postgres server", "host", cfg.Postgres.Host, "port", cfg.Postgres.Port)

		repo, err := postgres.NewKVRepository(pgClient)
		if err != nil {
			_ = pgClient.Close()
			return nil, nil, fmt.Errorf("failed to create new kv repository: %w", err)
		}
		return repo, pgClient.Close, nil

	case storeDriverRedis:
		s, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("connected to redis", "addr", cfg.Redis.Addr)
		return s, s.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown store driver %q, only support memory, file, postgres and redis", cfg.Driver)
}

// withSavedSearches opens the store, loads the saved search service and
// runs fn with it.
func withSavedSearches(ctx context.Context, cfg *Config, fn func(*savedsearch.Service) error) error {
	logger := initLogger(cfg.LogLevel)

	store, closeStore, err := openStore(ctx, logger, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to close store", "error", err)
		}
	}()

	return fn(savedsearch.NewService(ctx, store, logger))
}
