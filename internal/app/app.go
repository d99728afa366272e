package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/config"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/notify"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/postgres"
	redisx "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository"
	memoryrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/memory"
	postgresrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/postgres"
	redisrepo "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/repository/redis"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/hold"
	"github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/service/query"
	httpgin "github.com/TheRudas/Final-Project-Brasilia2-sub000/internal/transport/http/gin"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	services   *service.Services
	closers    []func()
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	// Storage backend
	var store repository.Store
	switch cfg.Storage {
	case config.StoragePostgres:
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%d/%s?sslmode=%s",
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.Name,
			cfg.Postgres.SSLMode,
		)

		pgxPool, err := postgres.New(context.Background(), postgres.Config{DSN: dsn})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		a.closers = append(a.closers, pgxPool.Close)

		store = postgresrepo.NewStore(pgxPool)
	case config.StorageMemory:
		store = memoryrepo.NewStore()
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}

	// Redis is optional: without it the app runs uncached and unlimited.
	var (
		cache   *redisrepo.Cache
		pubsub  *redisx.TripsPubSub
		limiter *redisrepo.SlidingWindowLimiter
		idem    *redisrepo.IdempotencyStore
	)
	if cfg.Redis.Addr != "" {
		rdb, err := redisx.New(context.Background(), redisx.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })

		cache = redisrepo.New(rdb)
		pubsub = redisx.NewTripsPubSub(rdb)
		limiter = redisrepo.NewSlidingWindowLimiter(rdb, "rl", 10, 1*time.Minute)
		idem = redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)
	}

	// Notification sink is optional too.
	var notifier notify.Notifier = notify.Noop{}
	if cfg.AMQP.URL != "" {
		sink, err := notify.NewAMQP(cfg.AMQP.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize amqp: %w", err)
		}
		a.closers = append(a.closers, func() { _ = sink.Close() })
		notifier = sink
	}

	a.services = service.NewServices(store, cache, pubsub, limiter, notifier, service.Config{
		Hold: hold.Config{
			MinTTL: cfg.Hold.MinTTL,
			MaxTTL: cfg.Hold.MaxTTL,
		},
		Query:       query.Config{},
		PerHopCents: cfg.Fare.PerHopCents,
	})

	router := httpgin.NewRouter(a.services, idem, logger)

	a.httpServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	return a, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Hold sweeper: reclaims expired holds on a fixed cadence.
	g.Go(func() error {
		ticker := time.NewTicker(a.cfg.Hold.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-gCtx.Done():
				return nil
			case now := <-ticker.C:
				n, err := a.services.Holds.Sweep(gCtx, now)
				if err != nil {
					a.logger.Error("hold sweep failed", "error", err)
					continue
				}
				if n > 0 {
					a.logger.Info("holds swept", "count", n)
				}
			}
		}
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	err := g.Wait()

	for _, c := range a.closers {
		c()
	}

	return err
}
