// Package ledger provides the account model the media access program runs
// against: identified byte buffers with a native balance, persisted in a
// Store, mutated through staged transactions that commit all-or-nothing,
// and subject to the minimum-balance (rent) persistence policy.
package ledger

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const accountHeaderSize = 40 // owner(32) + balance(8)

// Account is a ledger-owned storage slot.
type Account struct {
	ID      Identity // Address of the account
	Owner   Identity // Program allowed to mutate Data
	Balance uint64   // Native balance funding persistence
	Data    []byte   // Program-defined contents
}

// NewAccount creates an account with a zeroed data buffer of size bytes.
func NewAccount(id, owner Identity, balance uint64, size int) *Account {
	return &Account{ID: id, Owner: owner, Balance: balance, Data: make([]byte, size)}
}

// Clone returns a deep copy of the account.
func (a *Account) Clone() *Account {
	c := *a
	if a.Data != nil {
		c.Data = make([]byte, len(a.Data))
		copy(c.Data, a.Data)
	}
	return &c
}

// Equal reports whether two accounts hold identical state.
func (a *Account) Equal(b *Account) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID && a.Owner == b.Owner && a.Balance == b.Balance && bytes.Equal(a.Data, b.Data)
}

// Clear zeroes the balance and wipes the data buffer, leaving an account the
// store purges on commit.
func (a *Account) Clear() {
	a.Balance = 0
	a.Data = nil
}

// SerializeAccount encodes the owner, balance and data of an account.
// The identity is the storage key and is not included.
func SerializeAccount(a *Account) []byte {
	buf := make([]byte, accountHeaderSize+len(a.Data))
	copy(buf[0:32], a.Owner[:])
	binary.BigEndian.PutUint64(buf[32:40], a.Balance)
	copy(buf[40:], a.Data)
	return buf
}

// DeserializeAccount decodes an account stored under id.
func DeserializeAccount(id Identity, data []byte) (*Account, error) {
	if len(data) < accountHeaderSize {
		return nil, fmt.Errorf("%w: expected at least %d bytes, got %d", ErrInvalidAccountData, accountHeaderSize, len(data))
	}
	a := &Account{ID: id}
	copy(a.Owner[:], data[0:32])
	a.Balance = binary.BigEndian.Uint64(data[32:40])
	a.Data = make([]byte, len(data)-accountHeaderSize)
	copy(a.Data, data[accountHeaderSize:])
	return a, nil
}
