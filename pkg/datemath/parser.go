package datemath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	inDurationRe = regexp.MustCompile(`^in (\d+) (hour|hours|day|days|week|weeks|month|months)$`)
	atClockRe    = regexp.MustCompile(`^(.+?) at (\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

	// Absolute layouts without an offset are read in the parser's timezone.
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}

	weekdays = map[string]time.Weekday{
		"monday":    time.Monday,
		"tuesday":   time.Tuesday,
		"wednesday": time.Wednesday,
		"thursday":  time.Thursday,
		"friday":    time.Friday,
		"saturday":  time.Saturday,
		"sunday":    time.Sunday,
	}

	// Largest accepted "in N <unit>" amount per unit, about a hundred years.
	maxAmount = map[string]int{
		"hour":  24 * 366 * 100,
		"day":   366 * 100,
		"week":  53 * 100,
		"month": 12 * 100,
	}
)

// Parser converts absolute and relative date strings to time.Time values.
type Parser struct {
	location *time.Location
}

// NewParser creates a new date parser for the given IANA timezone string.
// e.g. "Europe/Berlin"
func NewParser(timezone string) (*Parser, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &Parser{location: loc}, nil
}

// Location returns the parser's timezone.
func (p *Parser) Location() *time.Location {
	return p.location
}

// Resolve reads value as RFC3339, a local date-time, a bare date, or a
// relative expression, in that order.
func (p *Parser) Resolve(value string, now time.Time) (Result, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Result{}, ErrEmpty
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return Result{Time: t}, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, p.location); err == nil {
			return Result{Time: t}, nil
		}
	}
	if t, err := time.ParseInLocation("2006-01-02", value, p.location); err == nil {
		return Result{Time: t, IsAllDay: true}, nil
	}

	return p.resolveRelative(value, now)
}

// Parse converts a relative date string to an absolute time.Time.
// The baseTime is used as the reference point (usually time.Now()).
func (p *Parser) Parse(relative string, baseTime time.Time) (time.Time, error) {
	res, err := p.resolveRelative(relative, baseTime)
	if err != nil {
		return baseTime, err
	}
	return res.Time, nil
}

func (p *Parser) resolveRelative(relative string, baseTime time.Time) (Result, error) {
	relative = strings.ToLower(strings.TrimSpace(relative))

	if m := atClockRe.FindStringSubmatch(relative); m != nil {
		day, err := p.resolveDay(m[1], baseTime)
		if err != nil {
			return Result{}, err
		}
		return p.atClock(day, m[2], m[3], m[4])
	}

	if strings.HasPrefix(relative, "in ") {
		return p.parseInDuration(relative, baseTime)
	}

	day, err := p.resolveDay(relative, baseTime)
	if err != nil {
		return Result{}, err
	}
	return Result{Time: day, IsAllDay: true}, nil
}

// resolveDay maps a day expression to midnight of that day.
func (p *Parser) resolveDay(expr string, baseTime time.Time) (time.Time, error) {
	switch expr {
	case "today", "tonight":
		return p.StartOfDay(baseTime), nil
	case "tomorrow":
		return p.StartOfDay(baseTime.AddDate(0, 0, 1)), nil
	case "yesterday":
		return p.StartOfDay(baseTime.AddDate(0, 0, -1)), nil
	case "next week":
		return p.StartOfWeek(baseTime).AddDate(0, 0, 7), nil
	}

	if strings.HasPrefix(expr, "next ") {
		return p.parseNextWeekday(strings.TrimPrefix(expr, "next "), baseTime)
	}
	if strings.HasPrefix(expr, "this ") {
		expr = strings.TrimPrefix(expr, "this ")
	}
	if wd, ok := weekdays[expr]; ok {
		// Bare weekday: the coming occurrence, today included.
		days := int(wd - p.StartOfDay(baseTime).Weekday())
		if days < 0 {
			days += 7
		}
		return p.StartOfDay(baseTime.AddDate(0, 0, days)), nil
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognized, expr)
}

// parseInDuration handles patterns like "in 3 days", "in 2 weeks", "in 1 month", "in 4 hours".
func (p *Parser) parseInDuration(relative string, baseTime time.Time) (Result, error) {
	matches := inDurationRe.FindStringSubmatch(relative)
	if len(matches) != 3 {
		return Result{}, fmt.Errorf("%w: invalid duration format %q", ErrUnrecognized, relative)
	}

	unit := strings.TrimSuffix(matches[2], "s")
	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount > maxAmount[unit] {
		return Result{}, fmt.Errorf("%w: duration out of range %q", ErrUnrecognized, relative)
	}

	switch {
	case unit == "hour":
		return Result{Time: baseTime.In(p.location).Add(time.Duration(amount) * time.Hour)}, nil
	case unit == "day":
		return Result{Time: p.StartOfDay(baseTime.AddDate(0, 0, amount)), IsAllDay: true}, nil
	case unit == "week":
		return Result{Time: p.StartOfDay(baseTime.AddDate(0, 0, amount*7)), IsAllDay: true}, nil
	default:
		return Result{Time: p.StartOfDay(baseTime.AddDate(0, amount, 0)), IsAllDay: true}, nil
	}
}

// parseNextWeekday handles patterns like "next monday", "next friday".
func (p *Parser) parseNextWeekday(dayName string, baseTime time.Time) (time.Time, error) {
	targetWeekday, ok := weekdays[dayName]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: unknown weekday %q", ErrUnrecognized, dayName)
	}

	start := p.StartOfDay(baseTime)
	daysUntil := int(targetWeekday - start.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}

	return start.AddDate(0, 0, daysUntil), nil
}

func (p *Parser) atClock(day time.Time, hourStr, minStr, meridiem string) (Result, error) {
	hour, _ := strconv.Atoi(hourStr)
	minute := 0
	if minStr != "" {
		minute, _ = strconv.Atoi(minStr)
	}

	switch meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	}
	if hour > 23 || minute > 59 {
		return Result{}, fmt.Errorf("%w: invalid clock time %s:%02d", ErrUnrecognized, hourStr, minute)
	}

	return Result{Time: time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, p.location)}, nil
}

// StartOfDay returns midnight at the start of the given day in the parser's timezone.
func (p *Parser) StartOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, p.location)
}

// StartOfWeek returns midnight of the Monday of t's week.
func (p *Parser) StartOfWeek(t time.Time) time.Time {
	day := p.StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// EndOfDay returns the last representable instant of t's calendar day in the
// parser's timezone. It does not assume a 24-hour day.
func (p *Parser) EndOfDay(t time.Time) time.Time {
	t = t.In(p.location)
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, p.location)
}
