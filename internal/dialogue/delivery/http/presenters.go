package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"conversational-task-manager/internal/dialogue"
	"conversational-task-manager/internal/model"
)

var errUnknownRole = errors.New("history role must be user or assistant")

type historyItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatReq is one turn. Tracker is kept raw so a bad tracker is reported as
// such instead of as a generic binding error. contextTasks absent lets the
// server load recent tasks; an empty array means no context.
type chatReq struct {
	Message      string          `json:"message"`
	History      []historyItem   `json:"history"`
	Tracker      json.RawMessage `json:"tracker,omitempty" swaggertype:"object"`
	ContextTasks []model.Task    `json:"contextTasks"`
}

func (r chatReq) validate() error {
	for i, h := range r.History {
		if h.Role != dialogue.RoleUser && h.Role != dialogue.RoleAssistant {
			return fmt.Errorf("history[%d]: %w", i, errUnknownRole)
		}
	}
	return nil
}

func (r chatReq) toInput() (dialogue.TurnInput, error) {
	input := dialogue.TurnInput{
		Message:      r.Message,
		ContextTasks: r.ContextTasks,
	}

	if len(r.History) > 0 {
		input.History = make([]dialogue.HistoryMessage, len(r.History))
		for i, h := range r.History {
			input.History[i] = dialogue.HistoryMessage{Role: h.Role, Content: h.Content}
		}
	}

	if len(r.Tracker) > 0 {
		t, err := dialogue.DecodeTracker(r.Tracker)
		if err != nil {
			return dialogue.TurnInput{}, err
		}
		input.Tracker = &t
	}
	return input, nil
}
