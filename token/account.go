package token

import (
	"encoding/binary"
	"fmt"

	"github.com/bitfsorg/mediapay-go/ledger"
)

// AccountSize is the packed size of a token account: mint(32) + owner(32) + amount(8).
const AccountSize = 72

// Account is the token balance snapshot stored in a token account's data.
type Account struct {
	Mint   ledger.Identity // Token this account holds
	Owner  ledger.Identity // Identity authorized to move the balance
	Amount uint64          // Balance in token base units
}

// SerializeAccount encodes a token account.
func SerializeAccount(a *Account) []byte {
	buf := make([]byte, AccountSize)
	copy(buf[0:32], a.Mint[:])
	copy(buf[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[64:72], a.Amount)
	return buf
}

// DeserializeAccount decodes a token account.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) != AccountSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccountData, AccountSize, len(data))
	}
	a := &Account{}
	copy(a.Mint[:], data[0:32])
	copy(a.Owner[:], data[32:64])
	a.Amount = binary.LittleEndian.Uint64(data[64:72])
	return a, nil
}
