package http

import (
	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/pkg/log"
)

// Handler is the HTTP binding of the dialogue use case.
type Handler interface {
	Chat(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc dialogue.UseCase
}

// New creates the dialogue HTTP handler.
func New(l log.Logger, uc dialogue.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
