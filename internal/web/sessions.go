package web

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fr4nk3nst1ner/jobboard/internal/board"
	"github.com/fr4nk3nst1ner/jobboard/internal/session"
)

// maxPages bounds the live page loads kept per session; the oldest is
// dropped first
const maxPages = 8

// Session is one browser session. Its storage, and so the job cache, is
// shared by every page load; each page load owns its own board.
type Session struct {
	id       string
	storage  session.Store
	lastSeen time.Time

	mu    sync.Mutex
	pages map[string]*board.Board
	order []string
}

func newSession(id string, storage session.Store, now time.Time) *Session {
	return &Session{
		id:       id,
		storage:  storage,
		lastSeen: now,
		pages:    make(map[string]*board.Board),
	}
}

// addPage registers b under a new page id
func (s *Session) addPage(b *board.Board) string {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pages[id] = b
	s.order = append(s.order, id)
	for len(s.order) > maxPages {
		delete(s.pages, s.order[0])
		s.order = s.order[1:]
	}
	return id
}

// page returns the board of page id
func (s *Session) page(id string) (*board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.pages[id]
	return b, ok
}

// latest returns the most recently loaded page
func (s *Session) latest() (string, *board.Board, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.order) == 0 {
		return "", nil, false
	}
	id := s.order[len(s.order)-1]
	return id, s.pages[id], true
}

// Sessions tracks live sessions and prunes idle ones
type Sessions struct {
	mu         sync.Mutex
	entries    map[string]*Session
	newStorage func(id string) session.Store
	ttl        time.Duration
	now        func() time.Time
}

// NewSessions creates a registry. newStorage builds the session-scoped
// storage for a new session id.
func NewSessions(newStorage func(id string) session.Store, ttl time.Duration) *Sessions {
	return &Sessions{
		entries:    make(map[string]*Session),
		newStorage: newStorage,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Get returns the session for id, creating it when unknown
func (s *Sessions) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.entries[id]; ok {
		sess.lastSeen = now
		return sess
	}

	s.pruneLocked(now)
	sess := newSession(id, s.newStorage(id), now)
	s.entries[id] = sess
	return sess
}

// Len returns the number of live sessions
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Sessions) pruneLocked(now time.Time) {
	for id, sess := range s.entries {
		if now.Sub(sess.lastSeen) > s.ttl {
			delete(s.entries, id)
		}
	}
}
