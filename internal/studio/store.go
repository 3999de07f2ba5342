// Package studio holds per-session mockup editing state.
package studio

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"merch-studio-kit/internal/compositor"
	"merch-studio-kit/internal/script"
)

// SideKey names one printable side of the garment.
type SideKey string

const (
	SideFront SideKey = "front"
	SideBack  SideKey = "back"
)

// Session is one editing session. Revision increments on every mutation;
// renders snapshot a revision and are discarded if the session has moved
// on by the time they finish.
type Session struct {
	ID        string
	Front     compositor.Side
	Back      compositor.Side
	Tint      string
	Script    *script.Script
	Revision  uint64
	UpdatedAt time.Time
}

// Side returns the requested side, defaulting to front.
func (s *Session) Side(key SideKey) *compositor.Side {
	if key == SideBack {
		return &s.Back
	}
	return &s.Front
}

func (s *Session) snapshot() Session {
	out := *s
	out.Front = s.Front.Clone()
	out.Back = s.Back.Clone()
	if s.Script != nil {
		scr := *s.Script
		scr.Scenes = append([]script.Scene(nil), s.Script.Scenes...)
		out.Script = &scr
	}
	return out
}

var ErrNotFound = errors.New("studio: session not found")

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create starts a fresh session and returns a snapshot of it.
func (s *Store) Create() Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := &Session{
		ID:        uuid.NewString(),
		Front:     compositor.NewSide(),
		Back:      compositor.NewSide(),
		UpdatedAt: time.Now(),
	}
	s.sessions[sess.ID] = sess
	return sess.snapshot()
}

// Get returns a deep snapshot of a session.
func (s *Store) Get(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess.snapshot(), nil
}

// Update mutates a session under the lock, bumps its revision and returns
// the resulting snapshot. Concurrent updates serialize here; the last
// write wins and carries the highest revision.
func (s *Store) Update(id string, fn func(*Session)) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrNotFound
	}
	if fn != nil {
		fn(sess)
	}
	sess.Revision++
	sess.UpdatedAt = time.Now()
	return sess.snapshot(), nil
}

// Fresh reports whether a snapshot taken at revision still reflects the
// session's current state.
func (s *Store) Fresh(id string, revision uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	return ok && sess.Revision == revision
}

// Reset clears a session back to its initial editing state, keeping the ID.
func (s *Store) Reset(id string) (Session, error) {
	return s.Update(id, func(sess *Session) {
		sess.Front = compositor.NewSide()
		sess.Back = compositor.NewSide()
		sess.Tint = ""
		sess.Script = nil
	})
}

// Delete removes a session entirely.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}
