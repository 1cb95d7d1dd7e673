// Command talk2db-demo-seed loads the demo retail dataset into the
// relational store, replacing any prior contents of the three demo tables.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/saketh648/talk2db/internal/config"
	"github.com/saketh648/talk2db/internal/demo"
	"github.com/saketh648/talk2db/internal/observability"
	"github.com/saketh648/talk2db/internal/store"
)

func main() {
	seed := flag.Int64("seed", 42, "random seed for the generated dataset")
	salesRows := flag.Int("sales-rows", 100, "number of sales transactions to generate")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline for seeding")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("talk2db-demo-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	db, err := store.Open(ctx, store.DBConfig{
		DSN:             cfg.Store.DSN,
		MaxOpenConns:    cfg.Store.MaxOpenConns,
		MaxIdleConns:    cfg.Store.MaxIdleConns,
		ConnMaxIdleTime: cfg.Store.ConnMaxIdleTime,
		ConnMaxLifetime: cfg.Store.ConnMaxLifetime,
		PingTimeout:     cfg.Store.PingTimeout,
	})
	if err != nil {
		logger.Error("failed to open store db", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	seeder := demo.NewSeeder(db, logger)
	if err := seeder.Seed(ctx, demo.NewGenerator(*seed), *salesRows); err != nil {
		logger.Error("failed to seed demo data", slog.Any("error", err))
		os.Exit(1)
	}
}
