package calendar

import (
	"context"
	"fmt"
	"time"

	"conversational-task-manager/internal/task/repository"
	"conversational-task-manager/pkg/gcalendar"
	"conversational-task-manager/pkg/log"
)

// fixedDueDuration is the length of the event mirrored for a fixed due instant.
const fixedDueDuration = 30 * time.Minute

// Client is the part of the calendar API the mirror needs.
type Client interface {
	UpsertEvent(ctx context.Context, req gcalendar.UpsertEventRequest) (*gcalendar.Event, error)
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}

type implRepository struct {
	client     Client
	calendarID string
	timezone   string
	l          log.Logger
}

// New creates a calendar mirror writing to calendarID.
func New(client Client, calendarID, timezone string, l log.Logger) repository.CalendarRepository {
	return &implRepository{
		client:     client,
		calendarID: calendarID,
		timezone:   timezone,
		l:          l,
	}
}

func (r *implRepository) dsn(method string) string {
	return fmt.Sprintf("internal.task.repository.calendar.%s", method)
}
