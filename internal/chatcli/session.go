package chatcli

import (
	"strings"

	"conversational-task-manager/internal/dialogue"
)

// Session is the caller-side conversation state: the history replayed on
// every turn and the tracker returned by the last one.
type Session struct {
	History []dialogue.HistoryMessage
	Tracker dialogue.Tracker
	window  int
}

func NewSession(window int) *Session {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Session{Tracker: dialogue.EmptyTracker(), window: window}
}

// State is the dialogue state of the current tracker.
func (s *Session) State() dialogue.State {
	return dialogue.StateOf(s.Tracker)
}

// Recent returns the history window sent with the next turn.
func (s *Session) Recent() []dialogue.HistoryMessage {
	if len(s.History) <= s.window {
		return s.History
	}
	return s.History[len(s.History)-s.window:]
}

// Record stores a finished turn. The tracker only changes when the turn
// produced a done event; an interrupted turn keeps the previous one.
func (s *Session) Record(message string, events []dialogue.Event) {
	var texts []string
	for _, ev := range events {
		switch ev.Type {
		case dialogue.EventText:
			texts = append(texts, ev.Text)
		case dialogue.EventDone:
			if ev.Tracker != nil {
				s.Tracker = *ev.Tracker
			}
		}
	}

	s.History = append(s.History, dialogue.HistoryMessage{Role: dialogue.RoleUser, Content: message})
	if reply := strings.Join(texts, "\n"); reply != "" {
		s.History = append(s.History, dialogue.HistoryMessage{Role: dialogue.RoleAssistant, Content: reply})
	}
	if extra := len(s.History) - 2*s.window; extra > 0 {
		s.History = append([]dialogue.HistoryMessage(nil), s.History[extra:]...)
	}
}

// Reset forgets history and tracker.
func (s *Session) Reset() {
	s.History = nil
	s.Tracker = dialogue.EmptyTracker()
}
