package usecase

import (
	"fmt"
	"time"
)

// buildTimeContext describes the current moment for the oracle so it can
// turn relative dates into ISO values.
func buildTimeContext(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	// Week boundaries (Monday-Sunday)
	weekday := int(now.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	weekStart := now.AddDate(0, 0, -(weekday - 1))
	weekEnd := weekStart.AddDate(0, 0, 6)
	tomorrow := now.AddDate(0, 0, 1)

	return fmt.Sprintf(
		TimeContextTemplate,
		now.Format(time.RFC3339),
		now.Format(DateFormatISO),
		now.Weekday().String(),
		tomorrow.Format(DateFormatISO),
		weekStart.Format(DateFormatISO),
		weekEnd.Format(DateFormatISO),
		loc.String(),
	)
}
