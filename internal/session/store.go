// Package session keeps the process-wide set of signed-in sessions and tells
// subscribers when one starts or ends.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type EventType string

const (
	SignedIn  EventType = "signed_in"
	SignedOut EventType = "signed_out"
)

type Event struct {
	Type    EventType
	Session Session
}

type Listener func(Event)

// Store is safe for concurrent use. Listeners run synchronously after the
// store lock is released, in subscription order.
type Store struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	listeners []subscription
	nextSub   int
	now       func() time.Time
}

type subscription struct {
	id int
	fn Listener
}

// Default is the store shared by the HTTP layer.
var Default = NewStore()

func NewStore() *Store {
	return &Store{
		sessions: map[string]Session{},
		now:      time.Now,
	}
}

func (s *Store) SignIn(userID, email, role string, ttl time.Duration) Session {
	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		IssuedAt:  now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.emit(Event{Type: SignedIn, Session: sess})
	return sess
}

// Get returns a live session. Expired sessions are dropped and reported as
// signed out.
func (s *Store) Get(id string) (Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if !s.now().Before(sess.ExpiresAt) {
		s.SignOut(id)
		return Session{}, false
	}
	return sess, true
}

func (s *Store) SignOut(id string) bool {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		s.emit(Event{Type: SignedOut, Session: sess})
	}
	return ok
}

// SignOutUser ends every session of userID and returns how many there were.
func (s *Store) SignOutUser(userID string) int {
	var ended []Session

	s.mu.Lock()
	for id, sess := range s.sessions {
		if sess.UserID == userID {
			ended = append(ended, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range ended {
		s.emit(Event{Type: SignedOut, Session: sess})
	}
	return len(ended)
}

// Subscribe registers fn for every later event. Calling the returned func
// removes it; calling it again is a no-op.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

func (s *Store) emit(ev Event) {
	s.mu.RLock()
	fns := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		fns = append(fns, l.fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
