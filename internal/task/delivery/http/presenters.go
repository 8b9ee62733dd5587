package http

import (
	"strings"
	"time"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// --- Request DTOs ---

type createReq struct {
	Name        string           `json:"name"        binding:"required,max=255"`
	Description string           `json:"description" binding:"max=2000"`
	DueAt       *time.Time       `json:"dueAt"`
	Range       *model.TimeRange `json:"range"`
}

func (r createReq) validate() error {
	if r.DueAt != nil && r.Range != nil {
		return errDueConflict
	}
	return nil
}

func (r createReq) toInput() (task.CreateInput, error) {
	due, err := dueOf(r.DueAt, r.Range)
	if err != nil {
		return task.CreateInput{}, err
	}
	return task.CreateInput{
		Name:        r.Name,
		Description: r.Description,
		Due:         due,
	}, nil
}

// ---

type listReq struct {
	Name   string `form:"name"`
	Status string `form:"status" binding:"omitempty,oneof=pending done"`
	Before string `form:"before"`
	After  string `form:"after"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

func (r listReq) validate() error {
	for _, v := range []string{r.Before, r.After} {
		if _, err := parseBound(v); err != nil {
			return err
		}
	}
	return nil
}

func (r listReq) toInput() task.ListInput {
	limit := r.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	if r.Offset < 0 {
		r.Offset = 0
	}

	f := task.Filter{Name: strings.TrimSpace(r.Name)}
	if r.Status != "" {
		s := model.Status(r.Status)
		f.Status = &s
	}
	f.Before, _ = parseBound(r.Before)
	f.After, _ = parseBound(r.After)

	return task.ListInput{Filter: f, Limit: limit, Offset: r.Offset}
}

// ---

type searchReq struct {
	Query string `form:"q"     binding:"required"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=50"`
}

func (r searchReq) toInput() task.SearchInput {
	return task.SearchInput{Query: r.Query, Limit: r.Limit}
}

// ---

// updateReq is a partial update. An empty description clears it; clearDue
// removes the due date.
type updateReq struct {
	ID          string           `json:"-"`
	Name        *string          `json:"name"        binding:"omitempty,max=255"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	Status      *string          `json:"status"      binding:"omitempty,oneof=pending done"`
	DueAt       *time.Time       `json:"dueAt"`
	Range       *model.TimeRange `json:"range"`
	ClearDue    bool             `json:"clearDue"`
}

func (r updateReq) validate() error {
	if r.ID == "" {
		return errMissingID
	}
	set := 0
	for _, b := range []bool{r.DueAt != nil, r.Range != nil, r.ClearDue} {
		if b {
			set++
		}
	}
	if set > 1 {
		return errDueConflict
	}
	return nil
}

func (r updateReq) toInput() (task.UpdateInput, error) {
	patch := model.TaskPatch{
		Name:        r.Name,
		Description: r.Description,
	}
	if r.Status != nil {
		s := model.Status(*r.Status)
		patch.Status = &s
	}
	switch {
	case r.ClearDue:
		d := model.NoDue()
		patch.Due = &d
	case r.DueAt != nil || r.Range != nil:
		d, err := dueOf(r.DueAt, r.Range)
		if err != nil {
			return task.UpdateInput{}, err
		}
		patch.Due = &d
	}
	return task.UpdateInput{ID: r.ID, Patch: patch}, nil
}

func dueOf(at *time.Time, r *model.TimeRange) (model.Due, error) {
	switch {
	case at != nil:
		return model.FixedDue(*at), nil
	case r != nil:
		d, err := model.RangeDue(r.Start, r.End)
		if err != nil {
			return model.Due{}, errInvalidRange
		}
		return d, nil
	}
	return model.NoDue(), nil
}

// parseBound reads an RFC 3339 instant or a UTC calendar day.
func parseBound(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, errInvalidDate
}

// --- Response DTOs ---

type taskResp struct {
	Task model.Task `json:"task"`
}

type listResp struct {
	Tasks  []model.Task `json:"tasks"`
	Total  int          `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

func (h *handler) newListResp(in task.ListInput, out task.ListOutput) listResp {
	tasks := out.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	return listResp{Tasks: tasks, Total: out.Total, Limit: in.Limit, Offset: in.Offset}
}

type searchItem struct {
	Task  model.Task `json:"task"`
	Score float64    `json:"score"`
}

type searchResp struct {
	Results []searchItem `json:"results"`
}

type deleteResp struct {
	RemovedID string `json:"removedId"`
}
