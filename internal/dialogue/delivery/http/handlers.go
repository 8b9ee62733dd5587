package http

import (
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/pkg/response"
)

// Chat godoc
// @Summary     Run one dialogue turn
// @Description Streams the turn as server-sent events. Each event is a JSON object with type text, toolCall or done; done carries the tracker to send with the next turn.
// @Tags        Dialogue
// @Accept      json
// @Produce     text/event-stream
// @Param       body body chatReq true "Message, history, tracker and optional context tasks"
// @Success     200 {object} dialogue.Event "Event stream"
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     429 {object} response.Resp "Too Many Requests"
// @Router      /api/v1/chat [POST]
func (h *handler) Chat(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processChatReq(c)
	if err != nil {
		h.l.Warnf(ctx, "internal.dialogue.delivery.http.Chat: processChatReq: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	input, err := req.toInput()
	if err != nil {
		h.l.Warnf(ctx, "internal.dialogue.delivery.http.Chat: toInput: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	events := h.uc.Turn(ctx, scopeOf(c), input)
	c.Stream(func(w io.Writer) bool {
		ev, ok := <-events
		if !ok {
			return false
		}
		c.Render(-1, sse.Event{Data: ev})
		return true
	})
}

func scopeOf(c *gin.Context) model.Scope {
	return model.Scope{UserID: "http_" + c.ClientIP()}
}
