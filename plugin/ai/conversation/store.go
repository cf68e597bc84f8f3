// Package conversation maintains the per-session dialogue window that is
// rendered into outbound generation prompts. Only a short recent window is
// retained and each message is hard-truncated: the generation upstream charges
// by input size, so full history is never replayed.
package conversation

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultWindow is the number of recent messages rendered into a prompt
	// (3 exchanges = 6 messages).
	DefaultWindow = 6
	// messageCharBudget caps the length of each rendered message.
	messageCharBudget = 150
	// DefaultMaxSessions caps the number of retained sessions.
	DefaultMaxSessions = 1000
)

// Session holds the ordered message sequence for one caller-supplied session
// identifier. Messages alternate user/assistant; an exchange always appends
// both, so the sequence length stays even between calls.
type Session struct {
	mu        sync.Mutex
	id        string
	messages  []string
	createdAt time.Time
	updatedAt time.Time
}

// Store owns the guarded session map. It is constructed once at process start
// and passed by handle to request handlers; sessions are evicted by idle age
// and by a hard cap on session count.
type Store struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxSessions int
}

// NewStore creates a new session store.
func NewStore(maxSessions int) *Store {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Store{
		sessions:    make(map[string]*Session),
		maxSessions: maxSessions,
	}
}

// AppendExchange appends one user message and its assistant reply, in order,
// to the session's sequence. The session is created on first use.
func (s *Store) AppendExchange(sessionID, userMessage, assistantReply string) {
	session := s.getOrCreate(sessionID)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.messages = append(session.messages, userMessage, assistantReply)
	session.updatedAt = time.Now()
}

// RenderContext renders the last window messages of the session as a flat
// prompt block. Each line is labeled "Q" or "A" by the message's parity in the
// full sequence, so alternation is preserved for any window size, and each
// message is truncated to the per-message character budget. Unknown sessions
// render as empty history.
func (s *Store) RenderContext(sessionID string, window int) string {
	if window <= 0 {
		window = DefaultWindow
	}

	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return ""
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	n := len(session.messages)
	if n == 0 {
		return ""
	}
	start := 0
	if n > window {
		start = n - window
	}

	lines := make([]string, 0, n-start)
	for i := start; i < n; i++ {
		label := "A"
		if i%2 == 0 {
			label = "Q"
		}
		lines = append(lines, label+": "+truncate(session.messages[i], messageCharBudget))
	}
	return strings.Join(lines, "\n")
}

// Reset empties the session's sequence. The identifier itself remains known.
func (s *Store) Reset(sessionID string) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()
	session.messages = session.messages[:0]
	session.updatedAt = time.Now()
}

// Len returns the number of retained sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// CleanupIdle removes sessions that have not been touched for maxAge.
// Returns the number of sessions removed.
func (s *Store) CleanupIdle(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	deleted := 0
	for id, session := range s.sessions {
		session.mu.Lock()
		idle := session.updatedAt.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			deleted++
		}
	}
	return deleted
}

// getOrCreate retrieves or creates a session, evicting the least recently
// updated session when the cap is reached.
func (s *Store) getOrCreate(sessionID string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[sessionID]; ok {
		return session
	}

	for len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	now := time.Now()
	session := &Session{
		id:        sessionID,
		messages:  make([]string, 0, DefaultWindow),
		createdAt: now,
		updatedAt: now,
	}
	s.sessions[sessionID] = session
	return session
}

// evictOldestLocked removes the session with the oldest update time.
// Must be called with the store lock held.
func (s *Store) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	for id, session := range s.sessions {
		if oldestID == "" || session.updatedAt.Before(oldest) {
			oldestID = id
			oldest = session.updatedAt
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
	}
}

// truncate shortens a message to at most budget characters. Messages may be
// multi-byte text, so the cut is taken on runes.
func truncate(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}
