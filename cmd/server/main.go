package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"drone-delivery-planner/internal/adapters/cache"
	"drone-delivery-planner/internal/adapters/ilp"
	"drone-delivery-planner/internal/adapters/repositories"
	"drone-delivery-planner/internal/api"
	"drone-delivery-planner/internal/api/handlers"
	"drone-delivery-planner/internal/config"
	"drone-delivery-planner/internal/pathfinding"
	"drone-delivery-planner/internal/platform/db"
	"drone-delivery-planner/internal/platform/logger"
	"drone-delivery-planner/internal/platform/metrics"
	"drone-delivery-planner/internal/ports"
	"drone-delivery-planner/internal/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires the reference data adapter behind its port and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("info").Fatal("failed to load config", "err", err)
	}

	log := logger.NewLogger(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics("drone_planner", reg)

	refData, closeRefData, err := buildReferenceData(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to set up reference data", "source", cfg.DataSource, "err", err)
	}
	defer closeRefData()

	finder := pathfinding.NewFinder(
		pathfinding.WithMaxIterations(cfg.SearchMaxIterations),
		pathfinding.WithLogger(log),
	)
	planner := services.NewPlanner(finder,
		services.WithWorkers(cfg.PathWorkers),
		services.WithLegTimeout(cfg.LegTimeout),
		services.WithDroneConcurrency(cfg.DroneConcurrency),
		services.WithLogger(log),
		services.WithMetrics(m),
	)

	h := handlers.New(refData, planner, log, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(h, log, reg),
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	go func() {
		log.Info("server listening", "port", cfg.Port, "source", cfg.DataSource, "workers", cfg.PathWorkers)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server error", "err", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info("received signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http server shutdown error", "err", err)
	}
	log.Info("server stopped")
}

// buildReferenceData selects the configured provider and, when REDIS_ADDR is
// set, wraps it in the Redis read-through cache. The returned func releases
// whatever connections were opened.
func buildReferenceData(ctx context.Context, cfg *config.Config, log logger.Logger) (ports.ReferenceDataProvider, func(), error) {
	var (
		provider ports.ReferenceDataProvider
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.DataSource {
	case config.SourcePostgres:
		conn, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, closeDB(conn, log))
		provider = repositories.NewPostgresReferenceRepository(conn, log)

	default:
		client, err := ilp.NewClient(cfg.ILPServiceURL, ilp.WithLogger(log))
		if err != nil {
			return nil, nil, err
		}
		provider = client
	}

	if cfg.RedisAddr == "" {
		return provider, closeAll, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		// The cache is best effort; keep it wired so it recovers when Redis does.
		log.Warn("redis unreachable at startup", "addr", cfg.RedisAddr, "err", err)
	}
	closers = append(closers, func() { _ = rdb.Close() })

	log.Info("reference data cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.RefDataCacheTTL.String())
	return cache.NewRedisReferenceCache(rdb, provider, cfg.RefDataCacheTTL, log), closeAll, nil
}

func closeDB(conn *sql.DB, log logger.Logger) func() {
	return func() {
		if err := conn.Close(); err != nil {
			log.Error("database close error", "err", err)
		}
	}
}
