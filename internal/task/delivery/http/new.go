package http

import (
	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/task"
	"conversational-task-manager/pkg/log"
)

// Handler is the REST binding of the task use case.
type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Search(c *gin.Context)
	Detail(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type handler struct {
	l  log.Logger
	uc task.UseCase
}

// New creates a new HTTP handler for the task domain.
func New(l log.Logger, uc task.UseCase) Handler {
	return &handler{
		l:  l,
		uc: uc,
	}
}
