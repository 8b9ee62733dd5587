package dialogue

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"conversational-task-manager/internal/task"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		name       string
		call       FunctionCall
		want       Call
		wantFields []string
		wantErr    error
	}{
		{
			name: "add with datetime",
			call: FunctionCall{Name: OpAddTask, Arguments: Args{Name: " call mom ", Datetime: "2025-10-21T17:00:00Z"}},
			want: AddArgs{Name: "call mom", Datetime: "2025-10-21T17:00:00Z"},
		},
		{
			name: "add with range",
			call: FunctionCall{Name: OpAddTask, Arguments: Args{Name: "trip", DateRange: &DateRange{Start: "2025-11-01", End: "2025-11-03"}}},
			want: AddArgs{Name: "trip", DateRange: &DateRange{Start: "2025-11-01", End: "2025-11-03"}},
		},
		{
			name:       "add without due",
			call:       FunctionCall{Name: OpAddTask, Arguments: Args{Name: "x"}},
			wantFields: []string{FieldDatetime},
		},
		{
			name:       "add with half range",
			call:       FunctionCall{Name: OpAddTask, Arguments: Args{DateRange: &DateRange{Start: "2025-11-01"}}},
			wantFields: []string{FieldDateRangeEnd, FieldName},
		},
		{
			name:       "add with both due forms",
			call:       FunctionCall{Name: OpAddTask, Arguments: Args{Name: "x", Datetime: "tomorrow", DateRange: &DateRange{Start: "a", End: "b"}}},
			wantFields: []string{FieldDue},
		},
		{
			name:       "edit without patch",
			call:       FunctionCall{Name: OpEditTask, Arguments: Args{ID: "1", Confirmation: ConfirmationYes}},
			wantFields: []string{FieldPatch},
		},
		{
			name:       "edit without target",
			call:       FunctionCall{Name: OpEditTask, Arguments: Args{Patch: &Patch{Desc: strPtr("")}}},
			wantFields: []string{FieldTarget},
		},
		{
			name:       "edit with bad status",
			call:       FunctionCall{Name: OpEditTask, Arguments: Args{ID: "1", Patch: &Patch{Status: strPtr("archived")}}},
			wantFields: []string{FieldPatchStatus},
		},
		{
			name:    "edit unconfirmed",
			call:    FunctionCall{Name: OpEditTask, Arguments: Args{ID: "1", Patch: &Patch{Desc: strPtr("")}}},
			wantErr: ErrConfirmationRequired,
		},
		{
			name: "edit confirmed",
			call: FunctionCall{Name: OpEditTask, Arguments: Args{Name: "Call Mom", Confirmation: "YES", Patch: &Patch{Desc: strPtr("")}}},
			want: EditArgs{Target: Target{Name: "Call Mom"}, Patch: Patch{Desc: strPtr("")}},
		},
		{
			name:    "remove unconfirmed",
			call:    FunctionCall{Name: OpRemoveTask, Arguments: Args{Name: "call mom", Confirmation: ConfirmationNo}},
			wantErr: ErrConfirmationRequired,
		},
		{
			name: "remove confirmed",
			call: FunctionCall{Name: OpRemoveTask, Arguments: Args{ID: "42", Confirmation: ConfirmationYes}},
			want: RemoveArgs{Target: Target{ID: "42"}},
		},
		{
			name: "find with nothing",
			call: FunctionCall{Name: OpFindTasks},
			want: FindArgs{},
		},
		{
			name:       "find with bad status",
			call:       FunctionCall{Name: OpFindTasks, Arguments: Args{Status: "later"}},
			wantFields: []string{FieldStatus},
		},
		{
			name:    "none",
			call:    FunctionCall{Name: OpNone},
			wantErr: ErrUnknownOp,
		},
		{
			name:    "unknown",
			call:    FunctionCall{Name: "archive_task"},
			wantErr: ErrUnknownOp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCall(tt.call)

			switch {
			case tt.wantFields != nil:
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %v", err)
				}
				if !errors.Is(err, task.ErrValidationFailed) {
					t.Errorf("ValidationError should match task.ErrValidationFailed")
				}
				if !reflect.DeepEqual(verr.Fields, tt.wantFields) {
					t.Errorf("fields = %v, want %v", verr.Fields, tt.wantFields)
				}
			case tt.wantErr != nil:
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if !reflect.DeepEqual(got, tt.want) {
					t.Errorf("got %#v, want %#v", got, tt.want)
				}
			}
		})
	}
}

func TestDecide(t *testing.T) {
	t.Run("no call carries the oracle tracker", func(t *testing.T) {
		d := Decide(OracleResponse{
			Reply:   " When is it due? ",
			Tracker: Tracker{Op: OpAddTask, Args: Args{Name: "call mom"}, Missing: []string{"datetime"}},
		})
		if d.Outcome != OutcomeReply || d.Call != nil {
			t.Fatalf("unexpected decision %+v", d)
		}
		if d.Reply != "When is it due?" {
			t.Errorf("reply = %q", d.Reply)
		}
		if d.Tracker.Op != OpAddTask || !reflect.DeepEqual(d.Tracker.Missing, []string{"datetime"}) {
			t.Errorf("tracker = %+v", d.Tracker)
		}
	})

	t.Run("premature remove is downgraded", func(t *testing.T) {
		d := Decide(OracleResponse{
			Reply:        "Removed.",
			FunctionCall: &FunctionCall{Name: OpRemoveTask, Arguments: Args{Name: "call mom"}},
			Tracker:      EmptyTracker(),
		})
		if d.Outcome != OutcomeNeedsConfirmation || d.Call != nil {
			t.Fatalf("unexpected decision %+v", d)
		}
		if d.Tracker.Op != OpRemoveTask || d.Tracker.Args.Name != "call mom" || !d.Tracker.NeedsConfirmation {
			t.Errorf("tracker not rebuilt from call: %+v", d.Tracker)
		}
	})

	t.Run("confirmation taken from tracker", func(t *testing.T) {
		d := Decide(OracleResponse{
			FunctionCall: &FunctionCall{Name: OpRemoveTask, Arguments: Args{Name: "call mom"}},
			Tracker:      Tracker{Op: OpRemoveTask, Args: Args{Name: "call mom", Confirmation: ConfirmationYes}},
		})
		if d.Outcome != OutcomeAccepted {
			t.Fatalf("expected accepted, got %+v", d)
		}
		if d.FunctionCall.Arguments.Confirmation != ConfirmationYes {
			t.Errorf("accepted call should record the confirmation")
		}
	})

	t.Run("confirmation taken from call", func(t *testing.T) {
		d := Decide(OracleResponse{
			FunctionCall: &FunctionCall{Name: OpRemoveTask, Arguments: Args{ID: "42", Confirmation: "Yes"}},
			Tracker:      EmptyTracker(),
		})
		if d.Outcome != OutcomeAccepted {
			t.Fatalf("expected accepted, got %+v", d)
		}
	})

	t.Run("oracle missing list is recomputed", func(t *testing.T) {
		d := Decide(OracleResponse{
			FunctionCall: &FunctionCall{Name: OpAddTask, Arguments: Args{Name: "call mom", Datetime: "tomorrow"}},
			Tracker:      Tracker{Op: OpAddTask, Missing: []string{FieldName, FieldDatetime}},
		})
		if d.Outcome != OutcomeAccepted {
			t.Fatalf("complete call should be accepted despite the oracle's missing list, got %+v", d)
		}
	})

	t.Run("incomplete add recomputes missing", func(t *testing.T) {
		d := Decide(OracleResponse{
			FunctionCall: &FunctionCall{Name: OpAddTask, Arguments: Args{Name: "call mom"}},
			Tracker:      Tracker{Op: OpAddTask, Args: Args{Name: "call mom"}},
		})
		if d.Outcome != OutcomeIncomplete {
			t.Fatalf("expected incomplete, got %+v", d)
		}
		if !reflect.DeepEqual(d.Tracker.Missing, []string{FieldDatetime}) {
			t.Errorf("missing = %v", d.Tracker.Missing)
		}
	})
}

func genOracleResponse(t *rapid.T, ops []Op) OracleResponse {
	resp := OracleResponse{
		Reply:   genText(t, "reply"),
		Tracker: genTracker(t),
	}
	if rapid.Bool().Draw(t, "has_call") {
		resp.FunctionCall = &FunctionCall{
			Name:      rapid.SampledFrom(ops).Draw(t, "call_op"),
			Arguments: genArgs(t),
		}
	}
	return resp
}

func TestProperty_AcceptedCallResetsTracker(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		d := Decide(genOracleResponse(rt, Ops))

		if (d.Outcome == OutcomeAccepted) != (d.Call != nil) {
			rt.Fatalf("outcome %s with call %v", d.Outcome, d.Call)
		}
		if d.Outcome == OutcomeAccepted && !reflect.DeepEqual(d.Tracker, EmptyTracker()) {
			rt.Fatalf("accepted call must leave an empty tracker, got %#v", d.Tracker)
		}
		if d.Tracker.NeedsConfirmation != (d.Tracker.Op.Destructive() && d.Tracker.Args.Confirmation != ConfirmationYes) {
			rt.Fatalf("needsConfirmation invariant broken: %#v", d.Tracker)
		}
	})
}

func TestProperty_ConfirmationGate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		resp := genOracleResponse(rt, []Op{OpEditTask, OpRemoveTask})
		if resp.FunctionCall == nil {
			return
		}

		confirmation := normalizeConfirmation(resp.FunctionCall.Arguments.Confirmation)
		next := Normalize(resp.Tracker)
		if confirmation == ConfirmationUnset && next.Op == resp.FunctionCall.Name {
			confirmation = next.Args.Confirmation
		}

		d := Decide(resp)
		if confirmation == ConfirmationYes {
			return
		}
		if d.Call != nil || d.Outcome == OutcomeAccepted {
			rt.Fatalf("unconfirmed %s accepted", resp.FunctionCall.Name)
		}
		if !d.Tracker.NeedsConfirmation {
			rt.Fatalf("carried tracker must need confirmation: %#v", d.Tracker)
		}
	})
}

func TestProperty_AddRequiredFieldGate(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		resp := genOracleResponse(rt, []Op{OpAddTask})
		if resp.FunctionCall == nil {
			return
		}
		a := resp.FunctionCall.Arguments

		blank := func(s string) bool { return strings.TrimSpace(s) == "" }
		hasName := !blank(a.Name)
		hasDatetime := !blank(a.Datetime)
		anyRange := a.DateRange != nil && (!blank(a.DateRange.Start) || !blank(a.DateRange.End))
		fullRange := a.DateRange != nil && !blank(a.DateRange.Start) && !blank(a.DateRange.End)
		want := hasName && ((hasDatetime && !anyRange) || (!hasDatetime && fullRange))

		d := Decide(resp)
		if got := d.Outcome == OutcomeAccepted; got != want {
			rt.Fatalf("accepted = %v, want %v for args %#v", got, want, a)
		}
		if add, ok := d.Call.(AddArgs); ok && (add.Datetime == "") == (add.DateRange == nil) {
			rt.Fatalf("accepted add must carry exactly one due form: %#v", add)
		}
	})
}
