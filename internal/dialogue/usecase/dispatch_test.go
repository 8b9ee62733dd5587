package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
	"conversational-task-manager/internal/task/repository"
)

func TestProperty_TargetResolutionDeterminism(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(rt)
		names := []string{"Gym", "gym", "call mom", "Report"}

		n := rapid.IntRange(0, 6).Draw(rt, "tasks")
		snapshot := make([]model.Task, n)
		for i := range snapshot {
			snapshot[i] = model.Task{
				ID:        fmt.Sprintf("t-%d", i),
				Name:      rapid.SampledFrom(names).Draw(rt, "name"),
				Status:    model.StatusPending,
				CreatedAt: fixedNow.Add(time.Duration(i) * time.Minute),
			}
		}

		if n > 0 && rapid.Bool().Draw(rt, "by_id") {
			want := snapshot[rapid.IntRange(0, n-1).Draw(rt, "pick")]
			for i := 0; i < 2; i++ {
				got, err := f.uc.resolveTarget(context.Background(), model.Scope{}, dialogue.Target{ID: want.ID, Name: "ignored"}, snapshot)
				if err != nil || got.ID != want.ID {
					rt.Fatalf("id %s resolved to %v, %v", want.ID, got.ID, err)
				}
			}
			return
		}

		query := rapid.SampledFrom(append(names, "GYM", "nothing")).Draw(rt, "query")
		var matches []string
		for _, t := range snapshot {
			if strings.EqualFold(t.Name, query) {
				matches = append(matches, t.ID)
			}
		}

		got, err := f.uc.resolveTarget(context.Background(), model.Scope{}, dialogue.Target{Name: query}, snapshot)
		if len(matches) == 1 {
			if err != nil || got.ID != matches[0] {
				rt.Fatalf("name %q: got %v, %v, want %s", query, got.ID, err, matches[0])
			}
			return
		}
		if !errors.Is(err, task.ErrTargetNotFound) {
			rt.Fatalf("name %q with %d matches: expected ErrTargetNotFound, got %v", query, len(matches), err)
		}
	})
}

func TestResolveTarget_IDOutsideSnapshot(t *testing.T) {
	f := newFixture(t)
	stored := f.seed(t, "stored", "archived report", model.StatusDone, model.NoDue(), fixedNow)

	got, err := f.uc.resolveTarget(context.Background(), model.Scope{}, dialogue.Target{ID: stored.ID}, nil)
	if err != nil || got.ID != stored.ID {
		t.Fatalf("got %v, %v", got.ID, err)
	}

	_, err = f.uc.resolveTarget(context.Background(), model.Scope{}, dialogue.Target{ID: "missing"}, nil)
	if !errors.Is(err, task.ErrTargetNotFound) {
		t.Fatalf("expected ErrTargetNotFound, got %v", err)
	}
}

func TestProperty_EditKeepsSingleDueVariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		f := newFixture(rt)
		start := time.Date(2025, 11, 1, 9, 0, 0, 0, time.UTC)
		initial := []model.Due{model.NoDue(), model.FixedDue(start)}
		if r, err := model.RangeDue(start, start.Add(time.Hour)); err == nil {
			initial = append(initial, r)
		}
		seeded := f.seed(rt, "t-1", "report", model.StatusPending,
			rapid.SampledFrom(initial).Draw(rt, "initial"), fixedNow)

		var patch dialogue.Patch
		if rapid.Bool().Draw(rt, "datetime") {
			v := "2025-11-05T10:00:00Z"
			patch.Datetime = &v
		}
		if rapid.Bool().Draw(rt, "range") {
			patch.DateRange = &dialogue.DateRange{Start: "2025-11-06", End: "2025-11-07"}
		}
		if patch.IsEmpty() {
			desc := "notes"
			patch.Desc = &desc
		}

		res, err := f.uc.Dispatch(context.Background(), model.Scope{}, dialogue.EditArgs{
			Target: dialogue.Target{ID: seeded.ID},
			Patch:  patch,
		}, []model.Task{seeded})
		if err != nil {
			rt.Fatalf("dispatch: %v", err)
		}

		due := res.Task.Due
		_, fixed := due.At()
		_, ranged := due.Range()
		if fixed && ranged {
			rt.Fatalf("both due forms set")
		}
		switch {
		case patch.Datetime != nil:
			if !fixed {
				rt.Fatalf("datetime patch must leave a fixed due, got %s", due.Kind())
			}
		case patch.DateRange != nil:
			r, ok := due.Range()
			if !ok {
				rt.Fatalf("range patch must leave a range due, got %s", due.Kind())
			}
			if !r.End.After(r.Start) {
				rt.Fatalf("day-only range should end at the end of its last day: %+v", r)
			}
		default:
			if !due.Equal(seeded.Due) {
				rt.Fatalf("due changed without a due patch")
			}
		}
	})
}

func TestDispatch_Add(t *testing.T) {
	tests := []struct {
		name    string
		args    dialogue.AddArgs
		want    model.DueKind
		wantErr error
	}{
		{name: "fixed iso", args: dialogue.AddArgs{Name: "a", Datetime: "2025-10-21T17:00:00+07:00"}, want: model.DueFixed},
		{name: "relative", args: dialogue.AddArgs{Name: "b", Datetime: "tomorrow at 5pm"}, want: model.DueFixed},
		{name: "range", args: dialogue.AddArgs{Name: "c", DateRange: &dialogue.DateRange{Start: "2025-11-01", End: "2025-11-03"}}, want: model.DueRange},
		{name: "inverted range", args: dialogue.AddArgs{Name: "d", DateRange: &dialogue.DateRange{Start: "2025-11-03", End: "2025-11-01"}}, wantErr: task.ErrValidationFailed},
		{name: "gibberish date", args: dialogue.AddArgs{Name: "e", Datetime: "when pigs fly"}, wantErr: task.ErrValidationFailed},
		{name: "blank name", args: dialogue.AddArgs{Name: "  ", Datetime: "tomorrow"}, wantErr: task.ErrValidationFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			res, err := f.uc.Dispatch(context.Background(), model.Scope{}, tt.args, nil)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Task.Due.Kind() != tt.want {
				t.Errorf("due kind = %s, want %s", res.Task.Due.Kind(), tt.want)
			}
			if res.Task.Status != model.StatusPending {
				t.Errorf("new task should be pending")
			}
		})
	}

	t.Run("relative date uses the clock", func(t *testing.T) {
		f := newFixture(t)
		res, err := f.uc.Dispatch(context.Background(), model.Scope{}, dialogue.AddArgs{Name: "call mom", Datetime: "tomorrow at 5pm"}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		at, _ := res.Task.Due.At()
		if want := time.Date(2025, 10, 21, 17, 0, 0, 0, time.UTC); !at.Equal(want) {
			t.Errorf("due = %v, want %v", at, want)
		}
	})
}

func TestDispatch_EditClearsDescription(t *testing.T) {
	f := newFixture(t)
	seeded, err := f.repo.CreateTask(context.Background(), repository.CreateTaskOptions{
		ID: "t-1", Name: "report", Description: "draft notes", Status: model.StatusPending, CreatedAt: fixedNow,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	empty := ""
	done := "done"
	res, err := f.uc.Dispatch(context.Background(), model.Scope{}, dialogue.EditArgs{
		Target: dialogue.Target{Name: "REPORT"},
		Patch:  dialogue.Patch{Desc: &empty, Status: &done},
	}, []model.Task{seeded})
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if res.Task.Description != "" || res.Task.Status != model.StatusDone {
		t.Errorf("unexpected task %+v", res.Task)
	}
}

func TestDispatch_FindFilters(t *testing.T) {
	f := newFixture(t)
	day := func(d int) time.Time { return time.Date(2025, 11, d, 12, 0, 0, 0, time.UTC) }
	snapshot := []model.Task{
		{ID: "1", Name: "Weekly report", Status: model.StatusPending, Due: model.FixedDue(day(3)), CreatedAt: fixedNow.Add(-time.Hour)},
		{ID: "2", Name: "report taxes", Status: model.StatusDone, Due: model.FixedDue(day(5)), CreatedAt: fixedNow.Add(-2 * time.Hour)},
		{ID: "3", Name: "groceries", Status: model.StatusPending, CreatedAt: fixedNow},
	}

	tests := []struct {
		name string
		args dialogue.FindArgs
		want string
	}{
		{name: "no filter newest first", args: dialogue.FindArgs{}, want: "3,1,2"},
		{name: "name substring", args: dialogue.FindArgs{Name: "REPORT"}, want: "1,2"},
		{name: "status", args: dialogue.FindArgs{Status: "pending"}, want: "3,1"},
		{name: "after day excludes that day", args: dialogue.FindArgs{After: "2025-11-03"}, want: "2"},
		{name: "before is exclusive", args: dialogue.FindArgs{Before: "2025-11-03T12:00:00Z"}, want: ""},
		{name: "conjunction", args: dialogue.FindArgs{Name: "report", Status: "done", Before: "2025-12-01"}, want: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.uc.Dispatch(context.Background(), model.Scope{}, tt.args, snapshot)
			if err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			ids := make([]string, len(res.Tasks))
			for i, tk := range res.Tasks {
				ids[i] = tk.ID
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatch_FindDayBoundsAcrossDST(t *testing.T) {
	f := newFixtureIn(t, "America/New_York")
	loc := f.uc.dates.Location()
	at := func(d, h, m int) model.Due { return model.FixedDue(time.Date(2025, 11, d, h, m, 0, 0, loc)) }

	// 2 Nov 2025 is the 25-hour fall-back day in New York.
	snapshot := []model.Task{
		{ID: "late-on-the-2nd", Name: "a", Status: model.StatusPending, Due: at(2, 23, 30), CreatedAt: fixedNow},
		{ID: "midnight-3rd", Name: "b", Status: model.StatusPending, Due: at(3, 0, 0), CreatedAt: fixedNow.Add(-time.Minute)},
		{ID: "last-ns-of-3rd", Name: "c", Status: model.StatusPending, Due: model.FixedDue(time.Date(2025, 11, 3, 23, 59, 59, 999999999, loc)), CreatedAt: fixedNow.Add(-2 * time.Minute)},
	}

	tests := []struct {
		name string
		args dialogue.FindArgs
		want string
	}{
		{name: "after a 25-hour day excludes its last hour", args: dialogue.FindArgs{After: "2025-11-02"}, want: "midnight-3rd,last-ns-of-3rd"},
		{name: "after a day excludes its last instant", args: dialogue.FindArgs{After: "2025-11-03"}, want: ""},
		{name: "before a day excludes its midnight", args: dialogue.FindArgs{Before: "2025-11-03"}, want: "late-on-the-2nd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.uc.Dispatch(context.Background(), model.Scope{}, tt.args, snapshot)
			if err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			ids := make([]string, len(res.Tasks))
			for i, tk := range res.Tasks {
				ids[i] = tk.ID
			}
			if got := strings.Join(ids, ","); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDispatch_AddDayRangeEndsAtMidnight(t *testing.T) {
	f := newFixtureIn(t, "America/New_York")
	loc := f.uc.dates.Location()

	res, err := f.uc.Dispatch(context.Background(), model.Scope{}, dialogue.AddArgs{
		Name:      "trip",
		DateRange: &dialogue.DateRange{Start: "2025-11-01", End: "2025-11-02"},
	}, nil)
	if err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	r, ok := res.Task.Due.Range()
	if !ok {
		t.Fatalf("expected a range due, got %s", res.Task.Due.Kind())
	}
	if want := time.Date(2025, 11, 3, 0, 0, 0, 0, loc); want.Sub(r.End) != time.Nanosecond {
		t.Errorf("range end = %v, want the instant before %v", r.End, want)
	}
}
