package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
	"conversational-task-manager/internal/task"
)

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// sanitizeJSONResponse strips markdown code fences and prose that models
// add around JSON output, keeping the outermost object.
func sanitizeJSONResponse(text string) string {
	if m := codeFenceRe.FindStringSubmatch(text); len(m) > 1 {
		text = m[1]
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return strings.TrimSpace(text)
	}
	end := strings.LastIndex(text, "}")
	if end < start {
		return strings.TrimSpace(text)
	}
	return strings.TrimSpace(text[start : end+1])
}

// emitter sends events until the consumer goes away.
type emitter struct {
	ctx context.Context
	out chan<- dialogue.Event
}

func (e emitter) send(ev dialogue.Event) bool {
	select {
	case e.out <- ev:
		return true
	case <-e.ctx.Done():
		return false
	}
}

func (e emitter) text(text string) bool {
	if strings.TrimSpace(text) == "" {
		return true
	}
	return e.send(dialogue.TextEvent(text))
}

// resolveInstant reads a date slot. Day-only values snap to the start of the
// day, or to its end when endOfDay is set.
func (uc *implUseCase) resolveInstant(field, value string, endOfDay bool) (time.Time, error) {
	res, err := uc.dates.Resolve(value, uc.now().In(uc.dates.Location()))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s: %v", task.ErrValidationFailed, field, err)
	}
	if res.IsAllDay {
		day := uc.dates.StartOfDay(res.Time)
		if endOfDay {
			return uc.dates.EndOfDay(day), nil
		}
		return day, nil
	}
	return res.Time, nil
}

// resolveDue turns the datetime / date_range slots into a due union.
// datetime wins when both are present.
func (uc *implUseCase) resolveDue(prefix, datetime string, dateRange *dialogue.DateRange) (model.Due, error) {
	if datetime != "" {
		at, err := uc.resolveInstant(prefix+"datetime", datetime, false)
		if err != nil {
			return model.Due{}, err
		}
		return model.FixedDue(at), nil
	}
	if dateRange == nil {
		return model.NoDue(), nil
	}

	start, err := uc.resolveInstant(prefix+"date_range.start", dateRange.Start, false)
	if err != nil {
		return model.Due{}, err
	}
	end, err := uc.resolveInstant(prefix+"date_range.end", dateRange.End, true)
	if err != nil {
		return model.Due{}, err
	}
	due, err := model.RangeDue(start, end)
	if err != nil {
		return model.Due{}, fmt.Errorf("%w: %sdate_range: %v", task.ErrValidationFailed, prefix, err)
	}
	return due, nil
}
