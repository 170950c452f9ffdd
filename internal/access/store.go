package access

import (
	"sync"
)

// Store holds the current AuthState and notifies subscribers of every change.
// The zero value is not usable; call NewStore.
type Store struct {
	mu     sync.Mutex
	state  AuthState
	nextID int
	subs   map[int]func(AuthState)
}

// NewStore returns a store in the loading state.
func NewStore() *Store {
	return &Store{
		state: AuthState{Loading: true},
		subs:  make(map[int]func(AuthState)),
	}
}

// Current returns the latest state.
func (s *Store) Current() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Set replaces the state and calls every subscriber with it. Subscribers run
// on the caller's goroutine, outside the store's lock.
func (s *Store) Set(state AuthState) {
	s.mu.Lock()
	s.state = state
	fns := make([]func(AuthState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// SignOut clears the identity.
func (s *Store) SignOut() {
	s.Set(AuthState{})
}

// Subscribe registers fn for future changes and returns a function that
// removes it. The returned function is safe to call more than once.
func (s *Store) Subscribe(fn func(AuthState)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}
