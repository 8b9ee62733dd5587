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
	_ "conversational-task-manager/docs" // Swagger docs
	"conversational-task-manager/internal/bootstrap"
	dialogueHTTP "conversational-task-manager/internal/dialogue/delivery/http"
	tgDelivery "conversational-task-manager/internal/dialogue/delivery/telegram"
	dialogueUsecase "conversational-task-manager/internal/dialogue/usecase"
	"conversational-task-manager/internal/httpserver"
	"conversational-task-manager/internal/middleware"
	taskHTTP "conversational-task-manager/internal/task/delivery/http"
	taskUsecase "conversational-task-manager/internal/task/usecase"
	"conversational-task-manager/pkg/log"
	"conversational-task-manager/pkg/telegram"
)

// @title       Conversational Task Manager API
// @description Task assistant that fills add/edit/remove/find requests over several chat turns, plus a plain REST task API.
// @version     1
// @host        localhost:8080
// @BasePath    /
// @schemes     http
func main() {
	_ = godotenv.Load(".env")

	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger := bootstrap.Logger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting Conversational Task Manager...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	loc, err := time.LoadLocation(cfg.Dialogue.Timezone)
	if err != nil {
		logger.Errorf(ctx, "Invalid dialogue.timezone %q: %v", cfg.Dialogue.Timezone, err)
		return
	}

	// 3. Task domain
	store, err := bootstrap.Store(ctx, cfg.Store, logger)
	if err != nil {
		logger.Error(ctx, "Failed to open task store: ", err)
		return
	}
	defer store.Close()

	vectorIndex := bootstrap.VectorIndex(ctx, cfg.Qdrant, cfg.Voyage, logger)
	calendar := bootstrap.Calendar(ctx, cfg.GoogleCalendar, cfg.Dialogue.Timezone, logger)
	taskUC := taskUsecase.New(logger, store, vectorIndex, calendar)

	// 4. Conversation
	oracle, err := bootstrap.Oracle(ctx, cfg.LLM, logger)
	if err != nil {
		logger.Error(ctx, "Intent oracle unavailable, configure at least one llm.providers entry: ", err)
		return
	}

	dialogueUC, err := dialogueUsecase.New(logger, oracle, taskUC, dialogueUsecase.Config{
		Timezone:      cfg.Dialogue.Timezone,
		ContextLimit:  cfg.Dialogue.ContextLimit,
		HistoryWindow: cfg.Dialogue.HistoryWindow,
		TurnTimeout:   cfg.Dialogue.TurnTimeout,
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize dialogue: ", err)
		return
	}

	// 5. Telegram (optional)
	var telegramHandler tgDelivery.Handler
	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken)
		telegramHandler = tgDelivery.New(logger, dialogueUC, bot, tgDelivery.Config{
			SecretToken:   cfg.Telegram.SecretToken,
			SessionTTL:    cfg.Telegram.SessionTTL,
			MaxSessions:   cfg.Telegram.MaxSessions,
			HistoryWindow: cfg.Dialogue.HistoryWindow,
			Location:      loc,
		})
		registerWebhook(ctx, cfg.Telegram, bot, logger)
	} else {
		logger.Warn(ctx, "Telegram skipped: telegram.bot_token is empty")
	}

	// 6. HTTP Server
	mw := middleware.New(logger, cfg.RateLimit, cfg.Environment.Name)
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:          logger,
		Port:            cfg.HTTPServer.Port,
		Mode:            cfg.HTTPServer.Mode,
		Environment:     cfg.Environment.Name,
		Middleware:      mw,
		ChatHandler:     dialogueHTTP.New(logger, dialogueUC),
		TelegramHandler: telegramHandler,
		TaskHandler:     taskHTTP.New(logger, taskUC),
	})
	if err != nil {
		logger.Error(ctx, "Failed to initialize HTTP server: ", err)
		return
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Error(ctx, "Failed to run server: ", err)
		return
	}

	logger.Info(context.Background(), "Server stopped gracefully")
}

// registerWebhook points Telegram at /webhook/telegram, using the configured
// URL or the ngrok tunnel when none is set.
func registerWebhook(ctx context.Context, cfg config.TelegramConfig, bot *telegram.Bot, logger log.Logger) {
	webhookURL := cfg.WebhookURL
	if webhookURL == "" && cfg.NgrokAPIURL != "" {
		public, err := tunnelURL(ctx, cfg.NgrokAPIURL, tunnelAttempts, tunnelInterval)
		if err != nil {
			logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
		} else {
			webhookURL = public + "/webhook/telegram"
			logger.Infof(ctx, "Auto-detected ngrok URL: %s", webhookURL)
		}
	}
	if webhookURL == "" {
		logger.Warnf(ctx, "Telegram webhook not registered: set telegram.webhook_url or telegram.ngrok_api_url")
		return
	}

	if err := bot.SetWebhook(ctx, webhookURL, cfg.SecretToken); err != nil {
		logger.Warnf(ctx, "Failed to set Telegram webhook: %v", err)
		return
	}
	logger.Infof(ctx, "Telegram webhook registered at %s", webhookURL)
}
