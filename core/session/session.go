package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/academia/core/academics"
	"github.com/trezcool/academia/core/user"
)

var ErrNotFound = errors.New("session not found")

// Session is the state of one logged-in identity.
// The workspace lives and dies with the session.
type Session struct {
	ID        string
	User      user.User
	CreatedAt time.Time
	Workspace *academics.Workspace
}

// WorkspaceFactory builds the editor workspace of a new session.
type WorkspaceFactory func(usr user.User) *academics.Workspace

// Store holds the live sessions in memory. Sessions do not survive a restart.
// A session expires `ttl` after its creation; a zero ttl never expires.
type Store struct {
	mu           sync.RWMutex
	sessions     map[string]*Session
	ttl          time.Duration
	newWorkspace WorkspaceFactory
	nowFunc      func() time.Time
}

func NewStore(ttl time.Duration, newWorkspace WorkspaceFactory) *Store {
	return &Store{
		sessions:     make(map[string]*Session),
		ttl:          ttl,
		newWorkspace: newWorkspace,
		nowFunc:      time.Now,
	}
}

// Create starts a session for `usr` and drops the expired ones.
func (s *Store) Create(usr user.User) *Session {
	now := s.nowFunc().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		User:      usr,
		CreatedAt: now,
		Workspace: s.newWorkspace(usr),
	}

	s.mu.Lock()
	for id, old := range s.sessions {
		if s.expired(old, now) {
			delete(s.sessions, id)
		}
	}
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns ErrNotFound for unknown and expired sessions.
func (s *Store) Get(id string) (*Session, error) {
	now := s.nowFunc().UTC()

	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(sess, now) {
		_ = s.Delete(id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.ttl > 0 && !now.Before(sess.CreatedAt.Add(s.ttl))
}

// Delete ends the session; its workspace is discarded.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
