package ledger

import "sync"

// Store persists accounts keyed by identity.
type Store interface {
	// Get returns a copy of the account, or ErrAccountNotFound.
	Get(id Identity) (*Account, error)

	// Apply writes puts and removes deletes as one atomic batch.
	Apply(puts []*Account, deletes []Identity) error

	// Close releases resources held by the store.
	Close() error
}

// MemStore is an in-memory implementation of Store for testing and dry runs.
type MemStore struct {
	mu       sync.RWMutex
	accounts map[Identity]*Account
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{accounts: make(map[Identity]*Account)}
}

// Get returns a copy of the account stored under id.
func (s *MemStore) Get(id Identity) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	return a.Clone(), nil
}

// Apply writes all puts and deletes under a single lock.
func (s *MemStore) Apply(puts []*Account, deletes []Identity) error {
	for _, a := range puts {
		if a == nil {
			return ErrNilParam
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range puts {
		s.accounts[a.ID] = a.Clone()
	}
	for _, id := range deletes {
		delete(s.accounts, id)
	}
	return nil
}

// Put stores a single account. Used to seed fixtures.
func (s *MemStore) Put(a *Account) error {
	return s.Apply([]*Account{a}, nil)
}

// Len returns the number of stored accounts.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Close is a no-op.
func (s *MemStore) Close() error { return nil }
