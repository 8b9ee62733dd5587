package model

import (
	"encoding/json"
	"time"
)

// DueKind tags which variant of Due holds.
type DueKind int

const (
	DueNone DueKind = iota
	DueFixed
	DueRange
)

func (k DueKind) String() string {
	switch k {
	case DueFixed:
		return "fixed"
	case DueRange:
		return "range"
	default:
		return "none"
	}
}

// TimeRange is an inclusive [Start, End] window.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Due is the due date of a task: a fixed instant, a range, or nothing.
// Fields are unexported so only the constructors can build a value,
// which keeps exactly one variant set and Start <= End for ranges.
type Due struct {
	kind  DueKind
	at    time.Time
	start time.Time
	end   time.Time
}

// NoDue returns the empty due date.
func NoDue() Due { return Due{} }

// FixedDue returns a due date at a single instant.
func FixedDue(at time.Time) Due {
	return Due{kind: DueFixed, at: at}
}

// RangeDue returns a due window. It fails when start is after end.
func RangeDue(start, end time.Time) (Due, error) {
	if start.After(end) {
		return Due{}, ErrInvalidRange
	}
	return Due{kind: DueRange, start: start, end: end}, nil
}

func (d Due) Kind() DueKind { return d.kind }

// At returns the fixed instant.
func (d Due) At() (time.Time, bool) {
	return d.at, d.kind == DueFixed
}

// Range returns the window.
func (d Due) Range() (TimeRange, bool) {
	return TimeRange{Start: d.start, End: d.end}, d.kind == DueRange
}

// Anchor is the instant used by date filters: the fixed instant, else the range start.
func (d Due) Anchor() (time.Time, bool) {
	switch d.kind {
	case DueFixed:
		return d.at, true
	case DueRange:
		return d.start, true
	}
	return time.Time{}, false
}

// Equal compares variants and instants.
func (d Due) Equal(o Due) bool {
	if d.kind != o.kind {
		return false
	}
	switch d.kind {
	case DueFixed:
		return d.at.Equal(o.at)
	case DueRange:
		return d.start.Equal(o.start) && d.end.Equal(o.end)
	}
	return true
}

// DisplayLayout is the layout Describe uses for instants.
const DisplayLayout = "Mon 02 Jan 2006 15:04"

// Describe renders d in loc for people. A nil loc keeps each instant's own zone.
func (d Due) Describe(loc *time.Location) string {
	in := func(t time.Time) string {
		if loc != nil {
			t = t.In(loc)
		}
		return t.Format(DisplayLayout)
	}
	switch d.kind {
	case DueFixed:
		return in(d.at)
	case DueRange:
		return in(d.start) + " → " + in(d.end)
	}
	return ""
}

func (d Due) wire() (*time.Time, *TimeRange) {
	switch d.kind {
	case DueFixed:
		at := d.at
		return &at, nil
	case DueRange:
		return nil, &TimeRange{Start: d.start, End: d.end}
	}
	return nil, nil
}

func dueFromWire(at *time.Time, r *TimeRange) (Due, error) {
	switch {
	case at != nil && r != nil:
		return Due{}, ErrConflictingDue
	case at != nil:
		return FixedDue(*at), nil
	case r != nil:
		return RangeDue(r.Start, r.End)
	}
	return NoDue(), nil
}

type dueJSON struct {
	DueAt *time.Time `json:"dueAt,omitempty"`
	Range *TimeRange `json:"range,omitempty"`
}

// MarshalJSON encodes {"dueAt": ...}, {"range": {...}} or {}.
func (d Due) MarshalJSON() ([]byte, error) {
	var out dueJSON
	out.DueAt, out.Range = d.wire()
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (d *Due) UnmarshalJSON(data []byte) error {
	var in dueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	due, err := dueFromWire(in.DueAt, in.Range)
	if err != nil {
		return err
	}
	*d = due
	return nil
}
