package mcp

import (
	"fmt"
	"time"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
)

func toDateRange(r *dateRangeInput) *dialogue.DateRange {
	if r == nil {
		return nil
	}
	return &dialogue.DateRange{Start: r.Start, End: r.End}
}

func (s *Server) toTaskOutput(t model.Task) taskOutput {
	out := taskOutput{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		Due:         t.Due.Describe(s.loc),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if at, ok := t.Due.At(); ok {
		out.DueAt = at.Format(time.RFC3339)
	}
	if r, ok := t.Due.Range(); ok {
		out.RangeStart = r.Start.Format(time.RFC3339)
		out.RangeEnd = r.End.Format(time.RFC3339)
	}
	return out
}

func (s *Server) toTaskOutputs(tasks []model.Task) []taskOutput {
	out := make([]taskOutput, len(tasks))
	for i, t := range tasks {
		out[i] = s.toTaskOutput(t)
	}
	return out
}

func (s *Server) toDispatchOutput(res dialogue.DispatchResult) dispatchOutput {
	out := dispatchOutput{Op: string(res.Op), RemovedID: res.RemovedID}
	switch res.Op {
	case dialogue.OpAddTask:
		out.Message = "task added"
	case dialogue.OpEditTask:
		out.Message = "task updated"
	case dialogue.OpRemoveTask:
		out.Message = "task removed"
	case dialogue.OpFindTasks:
		out.Message = fmt.Sprintf("%d tasks found", len(res.Tasks))
		out.Tasks = s.toTaskOutputs(res.Tasks)
	}
	if res.Task != nil {
		t := s.toTaskOutput(*res.Task)
		out.Task = &t
	}
	return out
}
