package ledger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var bucketAccounts = []byte("accounts")

// BoltStore persists accounts in a bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketAccounts); err != nil {
			return fmt.Errorf("boltstore: create bucket %q: %w", bucketAccounts, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Get retrieves an account by identity.
func (s *BoltStore) Get(id Identity) (*Account, error) {
	var acct *Account
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketAccounts).Get(id[:])
		if data == nil {
			return ErrAccountNotFound
		}
		a, err := DeserializeAccount(id, data)
		if err != nil {
			return fmt.Errorf("boltstore: decode account: %w", err)
		}
		acct = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return acct, nil
}

// Apply writes puts and deletes inside one bbolt update transaction, so
// either every change lands or none does.
func (s *BoltStore) Apply(puts []*Account, deletes []Identity) error {
	for _, a := range puts {
		if a == nil {
			return ErrNilParam
		}
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketAccounts)
		for _, a := range puts {
			if err := b.Put(a.ID[:], SerializeAccount(a)); err != nil {
				return fmt.Errorf("boltstore: put account %s: %w", a.ID.Short(), err)
			}
		}
		for _, id := range deletes {
			if err := b.Delete(id[:]); err != nil {
				return fmt.Errorf("boltstore: delete account %s: %w", id.Short(), err)
			}
		}
		return nil
	})
}

// ForEach calls fn for every stored account in key order.
func (s *BoltStore) ForEach(fn func(*Account) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketAccounts).ForEach(func(k, v []byte) error {
			var id Identity
			copy(id[:], k)
			a, err := DeserializeAccount(id, v)
			if err != nil {
				return fmt.Errorf("boltstore: decode account in list: %w", err)
			}
			return fn(a)
		})
	})
}
