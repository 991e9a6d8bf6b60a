package ledger

import (
	"encoding/hex"
	"fmt"

	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"
)

// IdentitySize is the width of an account identity.
const IdentitySize = 32

// Identity addresses an account, a program or a signer.
type Identity [IdentitySize]byte

// SystemProgramID owns accounts that no program has claimed yet.
var SystemProgramID Identity

// HostProgramID owns state the host keeps on its own behalf. Accounts it
// owns are exempt from the zero-balance purge.
var HostProgramID = DeriveIdentity("mediapay/host")

// RentSysvarID is the well-known identity of the rent sysvar account.
var RentSysvarID = DeriveIdentity("mediapay/sysvar/rent")

// DeriveIdentity returns SHA256(label) as a well-known identity.
func DeriveIdentity(label string) Identity {
	var id Identity
	copy(id[:], bsvhash.Sha256([]byte(label)))
	return id
}

// ParseIdentity decodes a 64-character hex string.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	b, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	if len(b) != IdentitySize {
		return id, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidIdentity, IdentitySize, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// String returns the hex encoding of the identity.
func (id Identity) String() string {
	return hex.EncodeToString(id[:])
}

// Short returns the first 8 hex characters, for log lines.
func (id Identity) Short() string {
	return hex.EncodeToString(id[:4])
}

// IsZero reports whether every byte of the identity is zero.
func (id Identity) IsZero() bool {
	return id == Identity{}
}
