package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestRangeDue(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	if _, err := RangeDue(start, start.Add(-time.Hour)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}

	d, err := RangeDue(start, start)
	if err != nil {
		t.Fatalf("equal bounds should be valid: %v", err)
	}
	anchor, ok := d.Anchor()
	if !ok || !anchor.Equal(start) {
		t.Errorf("anchor = %v/%v, want range start", anchor, ok)
	}
}

func TestDue_Anchor(t *testing.T) {
	at := time.Date(2025, 3, 4, 17, 0, 0, 0, time.UTC)
	r, _ := RangeDue(at.Add(time.Hour), at.Add(2*time.Hour))

	tests := []struct {
		name   string
		due    Due
		want   time.Time
		wantOK bool
	}{
		{name: "none", due: NoDue()},
		{name: "fixed", due: FixedDue(at), want: at, wantOK: true},
		{name: "range", due: r, want: at.Add(time.Hour), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.due.Anchor()
			if ok != tt.wantOK || !got.Equal(tt.want) {
				t.Errorf("Anchor() = %v/%v, want %v/%v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestDue_Describe(t *testing.T) {
	at := time.Date(2025, 3, 4, 17, 0, 0, 0, time.UTC)
	r, _ := RangeDue(at, at.Add(48*time.Hour))
	hcm := time.FixedZone("ICT", 7*3600)

	tests := []struct {
		name string
		due  Due
		loc  *time.Location
		want string
	}{
		{name: "none", due: NoDue(), want: ""},
		{name: "fixed", due: FixedDue(at), want: "Tue 04 Mar 2025 17:00"},
		{name: "fixed in zone", due: FixedDue(at), loc: hcm, want: "Wed 05 Mar 2025 00:00"},
		{name: "range", due: r, want: "Tue 04 Mar 2025 17:00 → Thu 06 Mar 2025 17:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.due.Describe(tt.loc); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDue_JSON(t *testing.T) {
	at := time.Date(2025, 3, 4, 17, 0, 0, 0, time.UTC)
	r, _ := RangeDue(at, at.Add(time.Hour))

	tests := []struct {
		name string
		due  Due
		want string
	}{
		{name: "none", due: NoDue(), want: `{}`},
		{name: "fixed", due: FixedDue(at), want: `{"dueAt":"2025-03-04T17:00:00Z"}`},
		{name: "range", due: r, want: `{"range":{"start":"2025-03-04T17:00:00Z","end":"2025-03-04T18:00:00Z"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := json.Marshal(tt.due)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(raw) != tt.want {
				t.Errorf("marshal = %s, want %s", raw, tt.want)
			}

			var back Due
			if err := json.Unmarshal(raw, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if !back.Equal(tt.due) {
				t.Errorf("round trip mismatch: %+v vs %+v", back, tt.due)
			}
		})
	}

	t.Run("both variants rejected", func(t *testing.T) {
		var d Due
		err := json.Unmarshal([]byte(`{"dueAt":"2025-03-04T17:00:00Z","range":{"start":"2025-03-04T17:00:00Z","end":"2025-03-04T18:00:00Z"}}`), &d)
		if !errors.Is(err, ErrConflictingDue) {
			t.Fatalf("expected ErrConflictingDue, got %v", err)
		}
	})

	t.Run("inverted range rejected", func(t *testing.T) {
		var d Due
		err := json.Unmarshal([]byte(`{"range":{"start":"2025-03-05T00:00:00Z","end":"2025-03-04T00:00:00Z"}}`), &d)
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange, got %v", err)
		}
	})
}

func genDue(t *rapid.T, label string) Due {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	a := base.Add(time.Duration(rapid.IntRange(0, 10000).Draw(t, label+"_a")) * time.Minute)
	b := a.Add(time.Duration(rapid.IntRange(0, 10000).Draw(t, label+"_b")) * time.Minute)
	switch rapid.IntRange(0, 2).Draw(t, label+"_kind") {
	case 1:
		return FixedDue(a)
	case 2:
		d, _ := RangeDue(a, b)
		return d
	}
	return NoDue()
}

func TestProperty_PatchKeepsSingleDueVariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		task := Task{ID: "t", Name: "n", Due: genDue(rt, "initial"), Status: StatusPending}

		for i := 0; i < rapid.IntRange(1, 5).Draw(rt, "patches"); i++ {
			var p TaskPatch
			if rapid.Bool().Draw(rt, "setDue") {
				d := genDue(rt, "patch")
				p.Due = &d
			}
			before := task
			task = task.Apply(p)

			_, fixed := task.Due.At()
			_, ranged := task.Due.Range()
			if fixed && ranged {
				rt.Fatalf("both dueAt and range set after patch")
			}
			if p.Due == nil && !task.Due.Equal(before.Due) {
				rt.Fatalf("due changed without a due patch")
			}
			if p.Due != nil && !task.Due.Equal(*p.Due) {
				rt.Fatalf("due patch not applied")
			}
		}

		raw, err := json.Marshal(task)
		if err != nil {
			rt.Fatalf("marshal: %v", err)
		}
		var back Task
		if err := json.Unmarshal(raw, &back); err != nil {
			rt.Fatalf("unmarshal: %v", err)
		}
		if !back.Due.Equal(task.Due) {
			rt.Fatalf("due lost in task JSON round trip")
		}
	})
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{in: "", want: StatusPending},
		{in: "pending", want: StatusPending},
		{in: " DONE ", want: StatusDone},
		{in: "archived", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatus(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTaskPatch_Apply(t *testing.T) {
	name := "renamed"
	empty := ""
	done := StatusDone
	noDue := NoDue()

	task := Task{ID: "1", Name: "old", Description: "desc", Due: FixedDue(time.Now()), Status: StatusPending}
	got := task.Apply(TaskPatch{Name: &name, Description: &empty, Status: &done, Due: &noDue})

	if got.Name != "renamed" || got.Description != "" || got.Status != StatusDone || got.Due.Kind() != DueNone {
		t.Errorf("unexpected result %+v", got)
	}
	if got.ID != task.ID {
		t.Errorf("id must not change")
	}
	if !(TaskPatch{}).IsEmpty() {
		t.Errorf("zero patch should be empty")
	}
}
