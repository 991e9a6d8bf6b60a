package ledger

import (
	"errors"
	"fmt"
)

// Txn stages account changes over a Store. Accounts handed out by Load are
// private copies; nothing reaches the store until Commit, which writes every
// changed account in one Apply. Accounts left with a zero balance are purged
// unless the host owns them.
type Txn struct {
	store    Store
	original map[Identity]*Account // nil entry: account did not exist
	working  map[Identity]*Account
	order    []Identity
	closed   bool
}

// Begin starts a transaction over store.
func Begin(store Store) *Txn {
	return &Txn{
		store:    store,
		original: make(map[Identity]*Account),
		working:  make(map[Identity]*Account),
	}
}

// Load returns the working copy of the account. Accounts that do not exist
// yet are materialized as empty, zero-balance accounts owned by the system
// program so that instructions can create them.
func (t *Txn) Load(id Identity) (*Account, error) {
	if t.closed {
		return nil, ErrTxnClosed
	}
	if a, ok := t.working[id]; ok {
		return a, nil
	}

	stored, err := t.store.Get(id)
	switch {
	case err == nil:
		t.original[id] = stored.Clone()
		t.working[id] = stored
	case errors.Is(err, ErrAccountNotFound):
		t.original[id] = nil
		t.working[id] = &Account{ID: id, Owner: SystemProgramID}
	default:
		return nil, fmt.Errorf("ledger: load account %s: %w", id.Short(), err)
	}
	t.order = append(t.order, id)
	return t.working[id], nil
}

// Modified reports whether the working copy of id differs from what was loaded.
func (t *Txn) Modified(id Identity) bool {
	w, ok := t.working[id]
	if !ok {
		return false
	}
	orig := t.original[id]
	if orig == nil {
		return w.Balance != 0 || len(w.Data) != 0 || w.Owner != SystemProgramID
	}
	return !orig.Equal(w)
}

// Commit writes every modified account. Zero-balance accounts not owned by
// HostProgramID are deleted.
func (t *Txn) Commit() error {
	if t.closed {
		return ErrTxnClosed
	}
	t.closed = true

	var puts []*Account
	var deletes []Identity
	for _, id := range t.order {
		if !t.Modified(id) {
			continue
		}
		w := t.working[id]
		if w.Balance == 0 && w.Owner != HostProgramID {
			if t.original[id] != nil {
				deletes = append(deletes, id)
			}
			continue
		}
		puts = append(puts, w)
	}
	if len(puts) == 0 && len(deletes) == 0 {
		return nil
	}
	if err := t.store.Apply(puts, deletes); err != nil {
		return fmt.Errorf("ledger: commit: %w", err)
	}
	return nil
}

// Rollback discards all staged changes.
func (t *Txn) Rollback() {
	t.closed = true
	t.working = nil
	t.original = nil
}
