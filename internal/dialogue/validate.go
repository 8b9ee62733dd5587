package dialogue

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"conversational-task-manager/internal/model"
)

// Call is a validated function call. The variants are AddArgs, EditArgs,
// RemoveArgs and FindArgs.
type Call interface {
	Op() Op
	isCall()
}

// Target names the task an edit or remove applies to. ID wins over Name.
type Target struct {
	ID   string
	Name string
}

func (t Target) String() string {
	if t.ID != "" {
		return "id " + t.ID
	}
	return fmt.Sprintf("%q", t.Name)
}

type AddArgs struct {
	Name      string
	Desc      string
	Datetime  string
	DateRange *DateRange
}

type EditArgs struct {
	Target Target
	Patch  Patch
}

type RemoveArgs struct {
	Target Target
}

type FindArgs struct {
	Name   string
	Status string
	Before string
	After  string
	Query  string
}

func (AddArgs) Op() Op    { return OpAddTask }
func (EditArgs) Op() Op   { return OpEditTask }
func (RemoveArgs) Op() Op { return OpRemoveTask }
func (FindArgs) Op() Op   { return OpFindTasks }

func (AddArgs) isCall()    {}
func (EditArgs) isCall()   {}
func (RemoveArgs) isCall() {}
func (FindArgs) isCall()   {}

// Field names reported in Missing and ValidationError.
const (
	FieldName           = "name"
	FieldDatetime       = "datetime"
	FieldDateRangeStart = "date_range.start"
	FieldDateRangeEnd   = "date_range.end"
	FieldDue            = "datetime|date_range"
	FieldTarget         = "id|name"
	FieldPatch          = "patch"
	FieldPatchName      = "patch.name"
	FieldPatchStatus    = "patch.status"
	FieldPatchRangeFrom = "patch.date_range.start"
	FieldPatchRangeTo   = "patch.date_range.end"
	FieldStatus         = "status"
)

// MissingFields lists the required slots op still lacks. Confirmation is
// tracked by NeedsConfirmation and never reported here.
func MissingFields(op Op, args Args) []string {
	args = normalizeArgs(args)
	var missing []string

	switch op {
	case OpAddTask:
		if args.Name == "" {
			missing = append(missing, FieldName)
		}
		if args.Datetime == "" {
			switch {
			case args.DateRange == nil:
				missing = append(missing, FieldDatetime)
			default:
				missing = append(missing, rangeGaps(args.DateRange, FieldDateRangeStart, FieldDateRangeEnd)...)
			}
		}

	case OpEditTask:
		if args.ID == "" && args.Name == "" {
			missing = append(missing, FieldTarget)
		}
		if args.Patch.IsEmpty() {
			missing = append(missing, FieldPatch)
		} else if args.Patch.Datetime == nil && args.Patch.DateRange != nil {
			missing = append(missing, rangeGaps(args.Patch.DateRange, FieldPatchRangeFrom, FieldPatchRangeTo)...)
		}

	case OpRemoveTask:
		if args.ID == "" && args.Name == "" {
			missing = append(missing, FieldTarget)
		}
	}

	sort.Strings(missing)
	return missing
}

func rangeGaps(r *DateRange, startField, endField string) []string {
	var gaps []string
	if r.Start == "" {
		gaps = append(gaps, startField)
	}
	if r.End == "" {
		gaps = append(gaps, endField)
	}
	return gaps
}

// ParseCall checks a function call against the required fields of its op and
// returns the typed call. Missing or malformed fields give a *ValidationError;
// an edit or remove without confirmation "yes" gives ErrConfirmationRequired.
func ParseCall(fc FunctionCall) (Call, error) {
	if fc.Name == "" || fc.Name == OpNone {
		return nil, fmt.Errorf("%w: no operation", ErrUnknownOp)
	}
	if _, err := ParseOp(string(fc.Name)); err != nil {
		return nil, fmt.Errorf("%w: %q", err, fc.Name)
	}

	raw := fc.Arguments
	args := normalizeArgs(raw)
	invalid := MissingFields(fc.Name, args)

	switch fc.Name {
	case OpAddTask:
		if strings.TrimSpace(raw.Datetime) != "" && normalizeRange(raw.DateRange) != nil {
			invalid = append(invalid, FieldDue)
		}
	case OpEditTask:
		if p := raw.Patch; p != nil && trimmedPtr(p.Datetime, false) != nil && normalizeRange(p.DateRange) != nil {
			invalid = append(invalid, FieldDue)
		}
		if args.Patch != nil {
			if args.Patch.Name != nil && *args.Patch.Name == "" {
				invalid = append(invalid, FieldPatchName)
			}
			if args.Patch.Status != nil && !validStatus(*args.Patch.Status) {
				invalid = append(invalid, FieldPatchStatus)
			}
		}
	case OpFindTasks:
		if args.Status != "" && !validStatus(args.Status) {
			invalid = append(invalid, FieldStatus)
		}
	}

	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, &ValidationError{Op: fc.Name, Fields: invalid}
	}

	if fc.Name.Destructive() && args.Confirmation != ConfirmationYes {
		return nil, ErrConfirmationRequired
	}

	target := Target{ID: args.ID, Name: args.Name}
	switch fc.Name {
	case OpAddTask:
		return AddArgs{Name: args.Name, Desc: args.Desc, Datetime: args.Datetime, DateRange: args.DateRange}, nil
	case OpEditTask:
		return EditArgs{Target: target, Patch: *args.Patch}, nil
	case OpRemoveTask:
		return RemoveArgs{Target: target}, nil
	default:
		return FindArgs{Name: args.Name, Status: args.Status, Before: args.Before, After: args.After, Query: args.Query}, nil
	}
}

func validStatus(s string) bool {
	_, err := model.ParseStatus(s)
	return err == nil
}

// Outcome says what a turn does with the oracle response.
type Outcome string

const (
	OutcomeReply             Outcome = "reply"
	OutcomeIncomplete        Outcome = "incomplete"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
	OutcomeAccepted          Outcome = "accepted"
)

// Decision is the verdict on one oracle response. Call and FunctionCall are
// set only when Outcome is OutcomeAccepted, in which case Tracker is empty.
type Decision struct {
	Outcome      Outcome
	Reply        string
	Call         Call
	FunctionCall *FunctionCall
	Tracker      Tracker
}

// Decide checks the oracle's proposal. Confirmation is read from the call's
// arguments, or from the carried tracker when the call leaves it unset.
// Required fields are recomputed here rather than taken from the oracle: a
// call is accepted only when ParseCall passes, otherwise it is dropped and
// the carried tracker says what is still needed.
func Decide(resp OracleResponse) Decision {
	next := Normalize(resp.Tracker)
	d := Decision{
		Outcome: OutcomeReply,
		Reply:   strings.TrimSpace(resp.Reply),
		Tracker: next,
	}

	if resp.FunctionCall == nil || resp.FunctionCall.Name == "" || resp.FunctionCall.Name == OpNone {
		return d
	}

	fc := *resp.FunctionCall
	fc.Arguments.Confirmation = normalizeConfirmation(fc.Arguments.Confirmation)
	if fc.Arguments.Confirmation == ConfirmationUnset && next.Op == fc.Name {
		fc.Arguments.Confirmation = next.Args.Confirmation
	}

	call, err := ParseCall(fc)
	fc.Arguments = normalizeArgs(fc.Arguments)
	switch {
	case err == nil:
		d.Outcome = OutcomeAccepted
		d.Call = call
		d.FunctionCall = &fc
		d.Tracker = EmptyTracker()

	case errors.Is(err, ErrConfirmationRequired):
		d.Outcome = OutcomeNeedsConfirmation
		d.Tracker = TrackerFromCall(fc)

	default:
		d.Outcome = OutcomeIncomplete
		carried := next
		if _, opErr := ParseOp(string(fc.Name)); opErr == nil && carried.Op != fc.Name {
			carried = TrackerFromCall(fc)
		}
		if carried.Op == fc.Name {
			carried.Args.Confirmation = fc.Arguments.Confirmation
		}
		carried.Missing = MissingFields(carried.Op, carried.Args)
		if verr := (*ValidationError)(nil); errors.As(err, &verr) && carried.Op == fc.Name {
			carried.Missing = append(carried.Missing, verr.Fields...)
		}
		d.Tracker = Normalize(carried)
	}

	return d
}
