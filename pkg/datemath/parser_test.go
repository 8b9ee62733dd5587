package datemath_test

import (
	"errors"
	"testing"
	"time"

	"conversational-task-manager/pkg/datemath"
)

func TestNewParser(t *testing.T) {
	if _, err := datemath.NewParser("Europe/Berlin"); err != nil {
		t.Fatalf("unexpected error creating valid parser: %v", err)
	}

	if _, err := datemath.NewParser("Invalid/Timezone"); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
}

func TestParse(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	baseTime := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC) // Wednesday, May 1, 2024
	startOfBase := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		relative string
		want     time.Time
		wantErr  bool
	}{
		{name: "Today", relative: "today", want: startOfBase},
		{name: "Tomorrow", relative: "Tomorrow ", want: startOfBase.AddDate(0, 0, 1)},
		{name: "Yesterday", relative: "yesterday", want: startOfBase.AddDate(0, 0, -1)},
		{name: "In 3 days", relative: "in 3 days", want: startOfBase.AddDate(0, 0, 3)},
		{name: "In 2 weeks", relative: "in 2 weeks", want: startOfBase.AddDate(0, 0, 14)},
		{name: "In 1 month", relative: "in 1 month", want: startOfBase.AddDate(0, 1, 0)},
		{name: "In 2 hours", relative: "in 2 hours", want: baseTime.Add(2 * time.Hour)},
		{name: "Invalid duration pattern", relative: "in a few days", want: baseTime, wantErr: true},
		{name: "Hours beyond a century", relative: "in 3000000 hours", want: baseTime, wantErr: true},
		{name: "Days overflowing int", relative: "in 99999999999999999999 days", want: baseTime, wantErr: true},
		{name: "Months at the cap", relative: "in 1200 months", want: startOfBase.AddDate(0, 1200, 0)},
		{name: "Next Monday (from Wed)", relative: "next monday", want: startOfBase.AddDate(0, 0, 5)},
		{name: "Next Wednesday (from Wed)", relative: "next wednesday", want: startOfBase.AddDate(0, 0, 7)},
		{name: "Bare weekday today", relative: "wednesday", want: startOfBase},
		{name: "This friday", relative: "this friday", want: startOfBase.AddDate(0, 0, 2)},
		{name: "Next week", relative: "next week", want: time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)},
		{name: "Tomorrow at 5pm", relative: "tomorrow at 5pm", want: time.Date(2024, 5, 2, 17, 0, 0, 0, time.UTC)},
		{name: "Friday at 09:30", relative: "friday at 9:30", want: time.Date(2024, 5, 3, 9, 30, 0, 0, time.UTC)},
		{name: "Midnight am", relative: "today at 12am", want: startOfBase},
		{name: "Invalid clock", relative: "today at 25", want: baseTime, wantErr: true},
		{name: "Unknown", relative: "some random day", want: baseTime, wantErr: true},
		{name: "Invalid Next Weekday", relative: "next funday", want: baseTime, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.relative, baseTime)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	parser, _ := datemath.NewParser("Europe/Berlin")
	loc := parser.Location()
	now := time.Date(2024, 5, 1, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name       string
		value      string
		want       time.Time
		wantAllDay bool
		wantErr    error
	}{
		{name: "RFC3339 keeps offset", value: "2024-05-03T17:00:00Z", want: time.Date(2024, 5, 3, 17, 0, 0, 0, time.UTC)},
		{name: "Local datetime", value: "2024-05-03T17:00:00", want: time.Date(2024, 5, 3, 17, 0, 0, 0, loc)},
		{name: "Local datetime with space", value: "2024-05-03 17:00", want: time.Date(2024, 5, 3, 17, 0, 0, 0, loc)},
		{name: "Bare date", value: "2024-05-03", want: time.Date(2024, 5, 3, 0, 0, 0, 0, loc), wantAllDay: true},
		{name: "Relative", value: "tomorrow", want: time.Date(2024, 5, 2, 0, 0, 0, 0, loc), wantAllDay: true},
		{name: "Empty", value: "  ", wantErr: datemath.ErrEmpty},
		{name: "Garbage", value: "whenever", wantErr: datemath.ErrUnrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Resolve(tt.value, now)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() unexpected error: %v", err)
			}
			if !got.Time.Equal(tt.want) || got.IsAllDay != tt.wantAllDay {
				t.Errorf("Resolve() = %v/%v, want %v/%v", got.Time, got.IsAllDay, tt.want, tt.wantAllDay)
			}
		})
	}
}

func TestStartOfWeek(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	sunday := time.Date(2024, 5, 5, 20, 0, 0, 0, time.UTC)
	want := time.Date(2024, 4, 29, 0, 0, 0, 0, time.UTC)

	if got := parser.StartOfWeek(sunday); !got.Equal(want) {
		t.Errorf("StartOfWeek() got = %v, want %v", got, want)
	}
}

func TestEndOfDay(t *testing.T) {
	parser, _ := datemath.NewParser("UTC")
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	want := time.Date(2024, 5, 1, 23, 59, 59, 999999999, time.UTC)

	got := parser.EndOfDay(base)
	if !got.Equal(want) {
		t.Errorf("EndOfDay() got = %v, want %v", got, want)
	}
}

func TestEndOfDay_DSTFallBack(t *testing.T) {
	parser, err := datemath.NewParser("America/New_York")
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	loc := parser.Location()

	// 2 Nov 2025 has 25 hours in New York.
	start := parser.StartOfDay(time.Date(2025, 11, 2, 12, 0, 0, 0, loc))
	got := parser.EndOfDay(start)

	lateSameDay := time.Date(2025, 11, 2, 23, 30, 0, 0, loc)
	nextMidnight := time.Date(2025, 11, 3, 0, 0, 0, 0, loc)
	if got.Before(lateSameDay) {
		t.Errorf("EndOfDay() = %v is before %v on the same day", got, lateSameDay)
	}
	if !got.Before(nextMidnight) {
		t.Errorf("EndOfDay() = %v should be before %v", got, nextMidnight)
	}
	if gap := nextMidnight.Sub(got); gap != time.Nanosecond {
		t.Errorf("EndOfDay() leaves a gap of %v before midnight", gap)
	}
}
