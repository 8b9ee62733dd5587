package gcalendar

import "time"

// UpsertEventRequest is the input for creating or replacing an event with a
// caller-chosen ID.
type UpsertEventRequest struct {
	CalendarID  string
	ID          string
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	AllDay      bool
	Timezone    string // e.g. "Europe/Berlin"
}

// Event is a simplified representation of a Google Calendar event.
type Event struct {
	ID          string
	Summary     string
	Description string
	HtmlLink    string
	StartTime   time.Time
	EndTime     time.Time
}
