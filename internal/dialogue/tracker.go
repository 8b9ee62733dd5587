package dialogue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// EmptyTracker is the state of a conversation with nothing in flight.
func EmptyTracker() Tracker {
	return Tracker{Op: OpNone, Missing: []string{}}
}

// IsEmpty reports whether t carries no operation, slots or flags.
func (t Tracker) IsEmpty() bool {
	return (t.Op == OpNone || t.Op == "") && t.Args.IsEmpty() && len(t.Missing) == 0 && !t.NeedsConfirmation
}

// Normalize returns the canonical form of t: trimmed slots, one due
// representation (datetime wins over date_range), sorted unique missing
// fields and NeedsConfirmation derived from op and confirmation.
func Normalize(t Tracker) Tracker {
	if t.Op == "" {
		t.Op = OpNone
	}
	t.Args = normalizeArgs(t.Args)
	t.Missing = normalizeMissing(t.Missing)
	t.NeedsConfirmation = t.Op.Destructive() && t.Args.Confirmation != ConfirmationYes
	return t
}

// TrackerFromCall rebuilds the tracker a call would have come from.
func TrackerFromCall(fc FunctionCall) Tracker {
	return Normalize(Tracker{
		Op:      fc.Name,
		Args:    fc.Arguments,
		Missing: MissingFields(fc.Name, fc.Arguments),
	})
}

// StateOf places t in the slot-filling machine.
func StateOf(t Tracker) State {
	t = Normalize(t)
	switch {
	case t.Op == OpNone:
		return StateIdle
	case len(t.Missing) > 0 || len(MissingFields(t.Op, t.Args)) > 0:
		return StateCollecting
	case t.NeedsConfirmation:
		return StateAwaitingConfirmation
	default:
		return StateReady
	}
}

// EncodeTracker returns the canonical JSON form of t.
func EncodeTracker(t Tracker) ([]byte, error) {
	return json.Marshal(t)
}

// DecodeTracker parses a tracker. Empty input is the empty tracker.
func DecodeTracker(data []byte) (Tracker, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return EmptyTracker(), nil
	}
	var t Tracker
	if err := json.Unmarshal(data, &t); err != nil {
		if errors.Is(err, ErrInvalidTracker) {
			return Tracker{}, err
		}
		return Tracker{}, fmt.Errorf("%w: %v", ErrInvalidTracker, err)
	}
	return t, nil
}

type trackerWire Tracker

func (t Tracker) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackerWire(Normalize(t)))
}

func (t *Tracker) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		*t = EmptyTracker()
		return nil
	}

	var w trackerWire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTracker, err)
	}
	op, err := ParseOp(strings.TrimSpace(string(w.Op)))
	if err != nil {
		return fmt.Errorf("%w: op %q: %v", ErrInvalidTracker, w.Op, err)
	}
	w.Op = op
	*t = Normalize(Tracker(w))
	return nil
}

func normalizeArgs(a Args) Args {
	a.ID = strings.TrimSpace(a.ID)
	a.Name = strings.TrimSpace(a.Name)
	a.Desc = strings.TrimSpace(a.Desc)
	a.Datetime = strings.TrimSpace(a.Datetime)
	a.Status = strings.ToLower(strings.TrimSpace(a.Status))
	a.Before = strings.TrimSpace(a.Before)
	a.After = strings.TrimSpace(a.After)
	a.Query = strings.TrimSpace(a.Query)
	a.Confirmation = normalizeConfirmation(a.Confirmation)

	a.DateRange = normalizeRange(a.DateRange)
	if a.Datetime != "" {
		a.DateRange = nil
	}
	a.Patch = normalizePatch(a.Patch)
	return a
}

func normalizeConfirmation(c Confirmation) Confirmation {
	switch Confirmation(strings.ToLower(strings.TrimSpace(string(c)))) {
	case ConfirmationYes:
		return ConfirmationYes
	case ConfirmationNo:
		return ConfirmationNo
	}
	return ConfirmationUnset
}

func normalizeRange(r *DateRange) *DateRange {
	if r == nil {
		return nil
	}
	out := DateRange{Start: strings.TrimSpace(r.Start), End: strings.TrimSpace(r.End)}
	if out.Start == "" && out.End == "" {
		return nil
	}
	return &out
}

func normalizePatch(p *Patch) *Patch {
	if p == nil {
		return nil
	}
	out := Patch{
		Name:      trimmedPtr(p.Name, true),
		Desc:      trimmedPtr(p.Desc, true),
		Datetime:  trimmedPtr(p.Datetime, false),
		DateRange: normalizeRange(p.DateRange),
		Status:    trimmedPtr(p.Status, false),
	}
	if out.Status != nil {
		s := strings.ToLower(*out.Status)
		out.Status = &s
	}
	if out.Datetime != nil {
		out.DateRange = nil
	}
	if out.IsEmpty() {
		return nil
	}
	return &out
}

// trimmedPtr copies a trimmed string. Blank values become nil unless keepBlank.
func trimmedPtr(s *string, keepBlank bool) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" && !keepBlank {
		return nil
	}
	return &v
}

func normalizeMissing(missing []string) []string {
	out := make([]string, 0, len(missing))
	seen := make(map[string]bool, len(missing))
	for _, m := range missing {
		m = strings.TrimSpace(m)
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
