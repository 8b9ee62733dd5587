package http

import (
	"github.com/gin-gonic/gin"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/pkg/response"
)

// Create godoc
// @Summary     Create a task
// @Description Creates a pending task. dueAt and range are mutually exclusive; both may be omitted.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       body body createReq true "Task data"
// @Success     200  {object} taskResp
// @Failure     400  {object} response.Resp "Bad Request"
// @Failure     503  {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	created, err := h.uc.Create(ctx, scopeOf(c), input)
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.Create: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, taskResp{Task: created})
}

// List godoc
// @Summary     List tasks
// @Description Returns tasks newest first. Filters combine with AND; before and after are exclusive bounds on the due anchor.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       name   query string false "Case-insensitive name substring"
// @Param       status query string false "pending or done"
// @Param       before query string false "RFC 3339 instant or YYYY-MM-DD"
// @Param       after  query string false "RFC 3339 instant or YYYY-MM-DD"
// @Param       limit  query int    false "Page size (default: 20, max: 100)"
// @Param       offset query int    false "Page offset (default: 0)"
// @Success     200 {object} listResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	input := req.toInput()
	output, err := h.uc.List(ctx, scopeOf(c), input)
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.List: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, h.newListResp(input, output))
}

// Search godoc
// @Summary     Search tasks
// @Description Ranks tasks by semantic similarity to q, or by keyword overlap when no vector index is configured.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       q     query string true  "Free-text query"
// @Param       limit query int    false "Maximum hits (default: 10, max: 50)"
// @Success     200 {object} searchResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     503 {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks/search [GET]
func (h *handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	sc := scopeOf(c)

	req, err := h.processSearchReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	output, err := h.uc.Search(ctx, sc, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.Search: %v", err)
		h.writeError(c, err)
		return
	}

	results := make([]searchItem, 0, len(output.Hits))
	for _, hit := range output.Hits {
		t, err := h.uc.Detail(ctx, sc, hit.TaskID)
		if err != nil {
			h.l.Warnf(ctx, "internal.task.delivery.http.Search: skip hit %s: %v", hit.TaskID, err)
			continue
		}
		results = append(results, searchItem{Task: t, Score: hit.Score})
	}

	response.OK(c, searchResp{Results: results})
}

// Detail godoc
// @Summary     Get a task
// @Description Returns a single task by its ID.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} taskResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     503 {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	t, err := h.uc.Detail(ctx, scopeOf(c), c.Param("id"))
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.Detail: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, taskResp{Task: t})
}

// Update godoc
// @Summary     Update a task
// @Description Applies a partial update in one store call. An empty description clears it. Setting dueAt drops a range and vice versa; clearDue removes the due date.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       id   path string    true "Task ID"
// @Param       body body updateReq true "Fields to change"
// @Success     200 {object} taskResp
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     503 {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks/{id} [PATCH]
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}
	input, err := req.toInput()
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	updated, err := h.uc.Update(ctx, scopeOf(c), input)
	if err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.Update: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, taskResp{Task: updated})
}

// Delete godoc
// @Summary     Delete a task
// @Description Permanently removes a task by ID.
// @Tags        Tasks
// @Accept      json
// @Produce     json
// @Param       id path string true "Task ID"
// @Success     200 {object} deleteResp
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     503 {object} response.Resp "Store unavailable"
// @Router      /api/v1/tasks/{id} [DELETE]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Param("id")
	if err := h.uc.Delete(ctx, scopeOf(c), id); err != nil {
		h.l.Errorf(ctx, "internal.task.delivery.http.Delete: %v", err)
		h.writeError(c, err)
		return
	}

	response.OK(c, deleteResp{RemovedID: id})
}

func scopeOf(c *gin.Context) model.Scope {
	return model.Scope{UserID: "http_" + c.ClientIP()}
}
