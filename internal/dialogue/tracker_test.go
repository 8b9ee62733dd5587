package dialogue

import (
	"errors"
	"reflect"
	"testing"

	"pgregory.net/rapid"
)

func strPtr(s string) *string { return &s }

func genText(t *rapid.T, label string) string {
	return rapid.SampledFrom([]string{"", " ", "call mom", " Buy milk ", "2025-10-21T19:00:00Z", "tomorrow at 5pm"}).Draw(t, label)
}

func genOptText(t *rapid.T, label string) *string {
	if !rapid.Bool().Draw(t, label+"_set") {
		return nil
	}
	return strPtr(genText(t, label))
}

func genRange(t *rapid.T, label string) *DateRange {
	if !rapid.Bool().Draw(t, label+"_set") {
		return nil
	}
	return &DateRange{Start: genText(t, label+"_start"), End: genText(t, label+"_end")}
}

func genPatch(t *rapid.T) *Patch {
	if !rapid.Bool().Draw(t, "patch_set") {
		return nil
	}
	p := &Patch{
		Name:      genOptText(t, "patch_name"),
		Desc:      genOptText(t, "patch_desc"),
		Datetime:  genOptText(t, "patch_datetime"),
		DateRange: genRange(t, "patch_range"),
	}
	if rapid.Bool().Draw(t, "patch_status_set") {
		p.Status = strPtr(rapid.SampledFrom([]string{"", "pending", " DONE", "archived"}).Draw(t, "patch_status"))
	}
	return p
}

func genConfirmation(t *rapid.T, label string) Confirmation {
	return Confirmation(rapid.SampledFrom([]string{"", "yes", "no", "unset", " YES "}).Draw(t, label))
}

func genArgs(t *rapid.T) Args {
	return Args{
		ID:           rapid.SampledFrom([]string{"", "t-1", " t-2 "}).Draw(t, "id"),
		Name:         genText(t, "name"),
		Desc:         genText(t, "desc"),
		Datetime:     genText(t, "datetime"),
		DateRange:    genRange(t, "range"),
		Status:       rapid.SampledFrom([]string{"", "pending", "done", "Done", "archived"}).Draw(t, "status"),
		Confirmation: genConfirmation(t, "confirmation"),
		Patch:        genPatch(t),
		Before:       genText(t, "before"),
		After:        genText(t, "after"),
		Query:        genText(t, "query"),
	}
}

func genTracker(t *rapid.T) Tracker {
	return Tracker{
		Op:                rapid.SampledFrom(append([]Op{""}, Ops...)).Draw(t, "op"),
		Args:              genArgs(t),
		Missing:           rapid.SliceOfN(rapid.SampledFrom([]string{"name", "datetime", " ", "patch", "id|name"}), 0, 5).Draw(t, "missing"),
		NeedsConfirmation: rapid.Bool().Draw(t, "needs_confirmation"),
	}
}

func TestProperty_TrackerRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		tr := genTracker(rt)

		raw, err := EncodeTracker(tr)
		if err != nil {
			rt.Fatalf("encode: %v", err)
		}
		back, err := DecodeTracker(raw)
		if err != nil {
			rt.Fatalf("decode %s: %v", raw, err)
		}
		if want := Normalize(tr); !reflect.DeepEqual(back, want) {
			rt.Fatalf("round trip mismatch\n got: %#v\nwant: %#v\njson: %s", back, want, raw)
		}
	})
}

func TestProperty_NormalizeInvariants(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := Normalize(genTracker(rt))

		if again := Normalize(n); !reflect.DeepEqual(again, n) {
			rt.Fatalf("normalize is not idempotent: %#v vs %#v", again, n)
		}
		if n.Args.Datetime != "" && n.Args.DateRange != nil {
			rt.Fatalf("datetime and date_range both set")
		}
		if p := n.Args.Patch; p != nil && p.Datetime != nil && p.DateRange != nil {
			rt.Fatalf("patch datetime and date_range both set")
		}
		wantConfirm := n.Op.Destructive() && n.Args.Confirmation != ConfirmationYes
		if n.NeedsConfirmation != wantConfirm {
			rt.Fatalf("needsConfirmation = %v for op %s confirmation %q", n.NeedsConfirmation, n.Op, n.Args.Confirmation)
		}
		for i := 1; i < len(n.Missing); i++ {
			if n.Missing[i-1] >= n.Missing[i] {
				rt.Fatalf("missing not sorted and unique: %v", n.Missing)
			}
		}
	})
}

func TestEncodeTracker_Canonical(t *testing.T) {
	raw, err := EncodeTracker(Tracker{})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := `{"op":"none","args":{},"missing":[],"needsConfirmation":false}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}

	raw, err = EncodeTracker(Tracker{
		Op:      OpRemoveTask,
		Args:    Args{Name: " call mom "},
		Missing: []string{"name", "name"},
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want = `{"op":"remove_task","args":{"name":"call mom"},"missing":["name"],"needsConfirmation":true}`
	if string(raw) != want {
		t.Errorf("got %s, want %s", raw, want)
	}
}

func TestDecodeTracker(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Tracker
		wantErr error
	}{
		{name: "empty input", in: "  ", want: EmptyTracker()},
		{name: "null", in: "null", want: EmptyTracker()},
		{name: "empty object", in: "{}", want: EmptyTracker()},
		{
			name: "unset confirmation",
			in:   `{"op":"edit_task","args":{"id":"1","confirmation":"unset","patch":{"desc":""}}}`,
			want: Tracker{
				Op:                OpEditTask,
				Args:              Args{ID: "1", Patch: &Patch{Desc: strPtr("")}},
				Missing:           []string{},
				NeedsConfirmation: true,
			},
		},
		{
			name: "datetime wins over range",
			in:   `{"op":"add_task","args":{"name":"x","datetime":"2025-01-01","date_range":{"start":"a","end":"b"}}}`,
			want: Tracker{Op: OpAddTask, Args: Args{Name: "x", Datetime: "2025-01-01"}, Missing: []string{}},
		},
		{name: "unknown op", in: `{"op":"archive_task"}`, wantErr: ErrInvalidTracker},
		{name: "malformed", in: `{"op":`, wantErr: ErrInvalidTracker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeTracker([]byte(tt.in))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestStateOf(t *testing.T) {
	tests := []struct {
		name    string
		tracker Tracker
		want    State
	}{
		{name: "empty", tracker: EmptyTracker(), want: StateIdle},
		{name: "none with args", tracker: Tracker{Op: OpNone, Args: Args{Name: "x"}}, want: StateIdle},
		{name: "add missing due", tracker: Tracker{Op: OpAddTask, Args: Args{Name: "x"}}, want: StateCollecting},
		{name: "oracle says missing", tracker: Tracker{Op: OpFindTasks, Missing: []string{"status"}}, want: StateCollecting},
		{name: "remove unconfirmed", tracker: Tracker{Op: OpRemoveTask, Args: Args{Name: "x"}}, want: StateAwaitingConfirmation},
		{name: "remove confirmed", tracker: Tracker{Op: OpRemoveTask, Args: Args{Name: "x", Confirmation: ConfirmationYes}}, want: StateReady},
		{name: "add complete", tracker: Tracker{Op: OpAddTask, Args: Args{Name: "x", Datetime: "tomorrow"}}, want: StateReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StateOf(tt.tracker); got != tt.want {
				t.Errorf("StateOf() = %s, want %s", got, tt.want)
			}
		})
	}
}
