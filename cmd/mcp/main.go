package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"conversational-task-manager/config"
	"conversational-task-manager/internal/bootstrap"
	"conversational-task-manager/internal/dialogue"
	dialogueUsecase "conversational-task-manager/internal/dialogue/usecase"
	"conversational-task-manager/internal/mcp"
	taskUsecase "conversational-task-manager/internal/task/usecase"
)

// main serves the task tools over stdio. Stdout carries the protocol, so
// logs go to stderr.
func main() {
	_ = godotenv.Load(".env")

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := bootstrap.Logger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc, err := time.LoadLocation(cfg.Dialogue.Timezone)
	if err != nil {
		return fmt.Errorf("dialogue.timezone %q: %w", cfg.Dialogue.Timezone, err)
	}

	store, err := bootstrap.Store(ctx, cfg.Store, logger)
	if err != nil {
		return fmt.Errorf("open task store: %w", err)
	}
	defer store.Close()

	vectorIndex := bootstrap.VectorIndex(ctx, cfg.Qdrant, cfg.Voyage, logger)
	calendar := bootstrap.Calendar(ctx, cfg.GoogleCalendar, cfg.Dialogue.Timezone, logger)
	taskUC := taskUsecase.New(logger, store, vectorIndex, calendar)

	// chat_turn is only offered when an oracle is configured; the direct
	// task tools work without one.
	var oracle dialogue.Oracle
	if manager, oracleErr := bootstrap.Oracle(ctx, cfg.LLM, logger); oracleErr != nil {
		logger.Warnf(ctx, "chat_turn disabled: %v", oracleErr)
	} else {
		oracle = manager
	}

	dialogueUC, err := dialogueUsecase.New(logger, oracle, taskUC, dialogueUsecase.Config{
		Timezone:      cfg.Dialogue.Timezone,
		ContextLimit:  cfg.Dialogue.ContextLimit,
		HistoryWindow: cfg.Dialogue.HistoryWindow,
		TurnTimeout:   cfg.Dialogue.TurnTimeout,
	})
	if err != nil {
		return fmt.Errorf("initialize dialogue: %w", err)
	}

	srv := mcp.NewServer(logger, taskUC, dialogueUC, mcp.Config{
		Name:       cfg.MCP.Name,
		Version:    cfg.MCP.Version,
		EnableChat: oracle != nil,
		Location:   loc,
	})

	logger.Infof(ctx, "MCP server %s ready on stdio", cfg.MCP.Name)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
