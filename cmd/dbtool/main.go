package main

import (
	"context"
	"flag"
	"time"

	"drone-delivery-planner/internal/adapters/cache"
	"drone-delivery-planner/internal/adapters/repositories"
	"drone-delivery-planner/internal/config"
	"drone-delivery-planner/internal/platform/db"
	"drone-delivery-planner/internal/platform/logger"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// dbtool prepares the Postgres reference data store: it creates the schema,
// loads the seed file and drops any cached reference data.
func main() {
	skipSeed := flag.Bool("schema-only", false, "create the schema without loading seed data")
	flag.Parse()

	_ = godotenv.Load()

	log := logger.NewLogger(config.Get("LOG_LEVEL", "info"))
	defer func() { _ = log.Sync() }()

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal("database connection failed", "err", err)
	}
	defer conn.Close()

	log.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatal("schema initialization failed", "err", err)
	}
	log.Info("schema ready")

	if *skipSeed {
		return
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/reference.json")
	log.Info("seeding database", "path", seedPath)
	if err := repositories.SeedFromJSON(ctx, conn, seedPath); err != nil {
		log.Fatal("seeding failed", "err", err)
	}
	log.Info("seeding complete")

	if addr := config.Get("REDIS_ADDR", ""); addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})
		defer rdb.Close()

		// Only Invalidate is used; the wrapped provider is never consulted.
		refCache := cache.NewRedisReferenceCache(rdb, nil, 0, log)
		if err := refCache.Invalidate(ctx); err != nil {
			log.Warn("cache invalidation failed", "addr", addr, "err", err)
			return
		}
		log.Info("reference data cache invalidated", "addr", addr)
	}
}
