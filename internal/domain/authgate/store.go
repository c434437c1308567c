package authgate

import (
	"sort"
	"sync"

	domainauth "github.com/tradepro/ui-api/internal/domain/auth"
)

// Store is an observable holder of session state. It replaces what used to be
// ambient global state with an explicitly owned, injectable instance so tests
// can construct isolated ones.
//
// Only the auth service lifecycle (initial check, login, logout) may mutate
// it; everything else observes. Subscribers are invoked synchronously, in
// subscription order, with the store lock held, so notifications are strictly
// serialized in mutation order. Callbacks receive the new state as an
// argument and must not call back into the Store.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]func(State)
	nextID int
}

// NewStore creates a Store in the initial loading state: no user, not
// authenticated, initial session check in flight.
func NewStore() *Store {
	return &Store{
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

// Snapshot returns the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Resolve records the outcome of the initial session check: a non-nil user
// means a live session was found, nil means none. Loading always ends.
func (s *Store) Resolve(user *domainauth.User) {
	s.update(stateFor(user))
}

// SetUser records a fresh login.
func (s *Store) SetUser(user *domainauth.User) {
	s.update(stateFor(user))
}

// Clear records a logout or session expiry.
func (s *Store) Clear() {
	s.update(State{})
}

// Subscribe registers fn to be called on every state change. The returned
// cancel function removes the subscription; calling it more than once is
// harmless.
func (s *Store) Subscribe(fn func(State)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) update(next State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = next
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		s.subs[id](next)
	}
}

func stateFor(user *domainauth.User) State {
	if user == nil {
		return State{}
	}
	normalized := domainauth.NormalizeUser(*user)
	return State{User: &normalized, Authenticated: true}
}
