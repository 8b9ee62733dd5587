package telegram

import (
	"time"

	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/dialogue"
	pkgLog "conversational-task-manager/pkg/log"
	pkgTelegram "conversational-task-manager/pkg/telegram"
)

// Handler is the interface for the Telegram delivery handler.
type Handler interface {
	HandleWebhook(c *gin.Context)
}

// Config tunes the per-chat sessions.
type Config struct {
	SecretToken   string
	SessionTTL    time.Duration
	MaxSessions   int
	HistoryWindow int
	Location      *time.Location
}

type handler struct {
	l        pkgLog.Logger
	uc       dialogue.UseCase
	bot      pkgTelegram.IBot
	sessions *sessionStore
	cfg      Config
}

// New creates a new Telegram delivery handler.
func New(l pkgLog.Logger, uc dialogue.UseCase, bot pkgTelegram.IBot, cfg Config) Handler {
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultSessionTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &handler{
		l:        l,
		uc:       uc,
		bot:      bot,
		sessions: newSessionStore(cfg.MaxSessions, cfg.SessionTTL),
		cfg:      cfg,
	}
}
