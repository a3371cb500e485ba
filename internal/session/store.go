// Package session holds the client-side authentication state.
//
// A Store is created once at startup and handed to whatever needs to read or
// change it. It has two states, Anonymous and Authenticated; SetSession is
// the only way in and Clear the only way out. Tokens are never inspected.
package session

import (
	"sync"

	"github.com/phazelsound/client/internal/model"
)

// State of the session lifecycle.
type State int

const (
	Anonymous State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Listener receives the session after every mutation.
type Listener func(model.Session)

type Store struct {
	mu        sync.RWMutex
	current   model.Session
	listeners map[int]Listener
	nextID    int
}

// New returns a store in the cleared state.
func New() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// SetSession overwrites both tokens and marks the session authenticated.
// It does not look at the tokens; callers make sure both are present.
func (s *Store) SetSession(accessToken, refreshToken string) {
	s.update(func(cur *model.Session) {
		cur.AccessToken = accessToken
		cur.RefreshToken = refreshToken
		cur.IsAuthenticated = true
	})
}

// SetUser overwrites the profile only.
func (s *Store) SetUser(user model.User) {
	s.update(func(cur *model.Session) {
		u := user
		cur.User = &u
	})
}

// Clear resets tokens, flag and profile in one update.
func (s *Store) Clear() {
	s.update(func(cur *model.Session) {
		*cur = model.Session{}
	})
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySession(s.current)
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.IsAuthenticated
}

func (s *Store) State() State {
	if s.IsAuthenticated() {
		return Authenticated
	}
	return Anonymous
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) update(mutate func(*model.Session)) {
	s.mu.Lock()
	mutate(&s.current)
	snap := copySession(s.current)
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	// 락 밖에서 호출: listener가 store를 다시 읽을 수 있음
	for _, fn := range listeners {
		fn(snap)
	}
}

func copySession(in model.Session) model.Session {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	return out
}
