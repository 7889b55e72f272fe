package checkout

import (
	"sync"
)

// Store keeps one in-progress checkout per session, mirroring the cart
// store: session-scoped state held explicitly instead of globals.
type Store struct {
	mu        sync.Mutex
	checkouts map[string]*Checkout
}

func NewStore() *Store {
	return &Store{checkouts: make(map[string]*Checkout)}
}

// Get returns the checkout for a session, creating it on first use.
func (s *Store) Get(sessionID string) *Checkout {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.checkouts[sessionID]
	if !ok {
		c = New()
		s.checkouts[sessionID] = c
	}
	return c
}

// Drop discards a session's checkout.
func (s *Store) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.checkouts, sessionID)
}
