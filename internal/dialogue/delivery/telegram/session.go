package telegram

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"conversational-task-manager/internal/dialogue"
)

// session is the server-side state of one chat. mu serializes turns so a
// chat never runs two turns against the same tracker.
type session struct {
	mu      sync.Mutex
	history []dialogue.HistoryMessage
	tracker dialogue.Tracker
}

// remember appends the exchange and keeps the last window messages.
func (s *session) remember(window int, msgs ...dialogue.HistoryMessage) {
	s.history = append(s.history, msgs...)
	if over := len(s.history) - window; over > 0 {
		s.history = append([]dialogue.HistoryMessage(nil), s.history[over:]...)
	}
}

// sessionStore holds sessions per chat. Idle chats expire and start over.
type sessionStore struct {
	mu    sync.Mutex
	cache *expirable.LRU[int64, *session]
}

func newSessionStore(size int, ttl time.Duration) *sessionStore {
	return &sessionStore{cache: expirable.NewLRU[int64, *session](size, nil, ttl)}
}

// get returns the session of chatID, creating an empty one when needed.
func (s *sessionStore) get(chatID int64) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.cache.Get(chatID); ok {
		return sess
	}
	sess := &session{tracker: dialogue.EmptyTracker()}
	s.cache.Add(chatID, sess)
	return sess
}

func (s *sessionStore) reset(chatID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Remove(chatID)
}
