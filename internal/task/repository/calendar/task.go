package calendar

import (
	"context"
	"fmt"

	"conversational-task-manager/internal/model"
	"conversational-task-manager/pkg/gcalendar"
)

// UpsertTask writes the task's event. A task without a due date has no event,
// so any previous one is removed.
func (r *implRepository) UpsertTask(ctx context.Context, task model.Task) error {
	req, ok := r.eventFor(task)
	if !ok {
		return r.DeleteTask(ctx, task.ID)
	}

	if _, err := r.client.UpsertEvent(ctx, req); err != nil {
		r.l.Errorf(ctx, "%s: task=%s: %v", r.dsn("UpsertTask"), task.ID, err)
		return fmt.Errorf("mirror task %s: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes the task's event if there is one.
func (r *implRepository) DeleteTask(ctx context.Context, taskID string) error {
	if err := r.client.DeleteEvent(ctx, r.calendarID, gcalendar.EventID(taskID)); err != nil {
		r.l.Errorf(ctx, "%s: task=%s: %v", r.dsn("DeleteTask"), taskID, err)
		return fmt.Errorf("remove mirror of task %s: %w", taskID, err)
	}
	return nil
}

func (r *implRepository) eventFor(task model.Task) (gcalendar.UpsertEventRequest, bool) {
	req := gcalendar.UpsertEventRequest{
		CalendarID:  r.calendarID,
		ID:          gcalendar.EventID(task.ID),
		Summary:     task.Name,
		Description: task.Description,
		Timezone:    r.timezone,
	}
	if task.Status == model.StatusDone {
		req.Summary = "✓ " + task.Name
	}

	switch task.Due.Kind() {
	case model.DueFixed:
		at, _ := task.Due.At()
		req.StartTime = at
		req.EndTime = at.Add(fixedDueDuration)
	case model.DueRange:
		rg, _ := task.Due.Range()
		req.StartTime = rg.Start
		req.EndTime = rg.End
		if !rg.End.After(rg.Start) {
			req.EndTime = rg.Start.Add(fixedDueDuration)
		}
	default:
		return gcalendar.UpsertEventRequest{}, false
	}
	return req, true
}
