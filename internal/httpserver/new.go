package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	dialogueHTTP "conversational-task-manager/internal/dialogue/delivery/http"
	tgDelivery "conversational-task-manager/internal/dialogue/delivery/telegram"
	"conversational-task-manager/internal/middleware"
	taskHTTP "conversational-task-manager/internal/task/delivery/http"
	"conversational-task-manager/pkg/log"
)

// shutdownTimeout bounds how long in-flight requests may run after Run's
// context is cancelled.
const shutdownTimeout = 10 * time.Second

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string
	mw          middleware.Middleware

	// Conversation
	chatHandler     dialogueHTTP.Handler
	telegramHandler tgDelivery.Handler

	// Task domain
	taskHandler taskHTTP.Handler
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string
	Middleware  middleware.Middleware

	// Conversation
	ChatHandler     dialogueHTTP.Handler
	TelegramHandler tgDelivery.Handler // optional

	// Task domain
	TaskHandler taskHTTP.Handler
}

// New creates a new HTTPServer instance and registers every route.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		mw:              cfg.Middleware,
		chatHandler:     cfg.ChatHandler,
		telegramHandler: cfg.TelegramHandler,
		taskHandler:     cfg.TaskHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}
	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.chatHandler == nil {
		return errors.New("chat handler is required")
	}
	if srv.taskHandler == nil {
		return errors.New("task handler is required")
	}
	return nil
}
