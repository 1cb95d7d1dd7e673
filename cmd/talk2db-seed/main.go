// Command talk2db-seed embeds the schema-fact corpus and loads it into the
// vector index. Run it once after the index is up, and again whenever the
// facts change.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/saketh648/talk2db/internal/config"
	"github.com/saketh648/talk2db/internal/embed/gemini"
	qdrantindex "github.com/saketh648/talk2db/internal/index/qdrant"
	"github.com/saketh648/talk2db/internal/observability"
	"github.com/saketh648/talk2db/internal/seed"
)

func main() {
	factsPath := flag.String("facts", "", "path to a facts file, one fact per line (default: built-in corpus)")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall deadline for embedding and upserting")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv("talk2db-seed")
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}
	logger := observability.NewLogger(cfg, os.Stdout)

	facts := seed.DefaultFacts()
	if *factsPath != "" {
		facts, err = seed.LoadFacts(*factsPath)
		if err != nil {
			logger.Error("failed to load facts file", slog.Any("error", err))
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	embedder, err := gemini.New(ctx, gemini.Config{
		APIKey: cfg.Embedding.APIKey,
		Model:  cfg.Embedding.Model,
	})
	if err != nil {
		logger.Error("failed to initialize embedder", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = embedder.Close() }()

	idx, err := qdrantindex.New(qdrantindex.Config{
		Host:       cfg.Index.Host,
		Port:       cfg.Index.Port,
		APIKey:     cfg.Index.APIKey,
		UseTLS:     cfg.Index.UseTLS,
		Collection: cfg.Index.Collection,
		Timeout:    cfg.Index.Timeout,
	})
	if err != nil {
		logger.Error("failed to connect to index", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = idx.Close() }()

	if err := idx.EnsureCollection(ctx, cfg.Index.VectorSize); err != nil {
		logger.Error("failed to ensure collection", slog.Any("error", err))
		os.Exit(1)
	}

	for i, fact := range facts {
		vector, err := embedder.Embed(ctx, fact)
		if err != nil {
			logger.Error("failed to embed fact",
				slog.Int("fact", i),
				slog.Any("error", err),
			)
			os.Exit(1)
		}
		if err := idx.UpsertFact(ctx, uuid.NewString(), vector, fact); err != nil {
			logger.Error("failed to upsert fact",
				slog.Int("fact", i),
				slog.Any("error", err),
			)
			os.Exit(1)
		}
	}

	logger.Info("schema facts seeded",
		slog.String("collection", cfg.Index.Collection),
		slog.Int("facts", len(facts)),
	)
}
