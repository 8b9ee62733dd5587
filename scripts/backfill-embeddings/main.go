// Command backfill-embeddings re-indexes every stored task into Qdrant.
//
// Usage:
//
//	go run ./scripts/backfill-embeddings [path/to/config.yaml]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"conversational-task-manager/config"
	"conversational-task-manager/internal/bootstrap"
	"conversational-task-manager/internal/model"
	taskUsecase "conversational-task-manager/internal/task/usecase"
)

func main() {
	_ = godotenv.Load(".env")
	if len(os.Args) > 1 {
		os.Setenv("CONFIG_PATH", os.Args[1])
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := bootstrap.Logger(cfg.Logger)
	ctx := context.Background()

	store, err := bootstrap.Store(ctx, cfg.Store, logger)
	if err != nil {
		logger.Fatalf(ctx, "Failed to open task store: %v", err)
	}
	defer store.Close()

	index := bootstrap.VectorIndex(ctx, cfg.Qdrant, cfg.Voyage, logger)
	if index == nil {
		logger.Fatal(ctx, "Vector index is not configured: set qdrant.url and voyage.api_key")
	}

	taskUC := taskUsecase.New(logger, store, index, nil)

	logger.Info(ctx, "Starting backfill...")
	n, err := taskUC.Reindex(ctx, model.Scope{UserID: "backfill"})
	if err != nil {
		logger.Fatalf(ctx, "Backfill stopped after %d tasks: %v", n, err)
	}
	logger.Infof(ctx, "Backfill complete: %d tasks indexed", n)
}
