// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"provider-ranking-workers/internal/common/camunda"
	"provider-ranking-workers/internal/common/config"
	"provider-ranking-workers/internal/common/database"
	"provider-ranking-workers/internal/common/logger"
	"provider-ranking-workers/internal/common/observability"
	"provider-ranking-workers/internal/common/validation"
	"provider-ranking-workers/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func(context.Context) error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation(ctx)
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err.Error(),
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

type infrastructure struct {
	pg    *database.PostgresClient
	redis *database.RedisClient
	es    *database.ElasticsearchClient
}

func (i *infrastructure) Close() {
	if i.pg != nil {
		i.pg.Close()
	}
	if i.redis != nil {
		i.redis.Close()
	}
}

// connect dials Postgres, Redis and Elasticsearch concurrently.
func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*infrastructure, error) {
	infra := &infrastructure{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return retryWithBackoff(gctx, func(ctx context.Context) error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				pg.Close()
				return err
			}
			infra.pg = pg
			return nil
		}, 15, 2*time.Second, log, "PostgreSQL connection")
	})

	g.Go(func() error {
		return retryWithBackoff(gctx, func(ctx context.Context) error {
			es, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			if err := es.Ping(ctx); err != nil {
				return err
			}
			infra.es = es
			return nil
		}, 15, 2*time.Second, log, "Elasticsearch connection")
	})

	g.Go(func() error {
		return retryWithBackoff(gctx, func(ctx context.Context) error {
			rc, err := database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			if err := rc.Ping(ctx); err != nil {
				rc.Close()
				return err
			}
			infra.redis = rc
			return nil
		}, 10, 2*time.Second, log, "Redis connection")
	})

	if err := g.Wait(); err != nil {
		infra.Close()
		return nil, err
	}
	return infra, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("starting worker manager", map[string]interface{}{
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name, cfg.Tracing, log)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		obs.Shutdown(ctx)
	}()

	reg, err := registry.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		log.Error("activity registry load failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	if problems := reg.Check(); len(problems) > 0 {
		for _, p := range problems {
			log.Error("activity registry problem", map[string]interface{}{
				"activityId": p.ActivityID,
				"problem":    p.Message,
			})
		}
		os.Exit(1)
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		log.Error("schema compilation failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	rt := &camunda.Runtime{Validator: validator, Observability: obs}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	infra, err := connect(ctx, cfg, log)
	if err != nil {
		log.Error("infrastructure unavailable", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer infra.Close()
	log.Info("infrastructure connected", nil)

	zeebe, err := camunda.NewClient(cfg.Camunda.BrokerAddress, config.GetDuration(cfg.Camunda.RequestTimeout))
	if err != nil {
		log.Error("zeebe client failed", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	jobWorkers := registerWorkers(cfg, infra, zeebe, rt, log)
	log.Info("workers registered", map[string]interface{}{"count": len(jobWorkers)})

	server := newHealthServer(cfg.HTTP.Address, infra, log)
	go server.run()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	for _, jw := range jobWorkers {
		jw.Close()
		jw.AwaitClose()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	server.shutdown(shutdownCtx)

	log.Info("worker manager stopped gracefully", nil)
}
