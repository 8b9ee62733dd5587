package http

import (
	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/middleware"
)

// RegisterRoutes maps the chat endpoint. Turns are rate limited per client.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw middleware.Middleware) {
	rg.POST("/chat", mw.RateLimit(), h.Chat)
}
