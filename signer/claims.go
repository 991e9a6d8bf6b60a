package signer

import (
	"fmt"

	"github.com/bitfsorg/mediapay-go/ledger"
)

// Claims is the set of identities whose signatures were verified for the
// current operation. It is produced once at the host boundary and passed
// down; handlers ask it instead of inspecting per-account flags.
type Claims struct {
	signed map[ledger.Identity]struct{}
}

// NewClaims builds Claims for identities already authenticated by a trusted
// caller.
func NewClaims(ids ...ledger.Identity) *Claims {
	c := &Claims{signed: make(map[ledger.Identity]struct{}, len(ids))}
	for _, id := range ids {
		c.add(id)
	}
	return c
}

func (c *Claims) add(id ledger.Identity) {
	c.signed[id] = struct{}{}
}

// Signed reports whether id signed the operation. A nil Claims has no signers.
func (c *Claims) Signed(id ledger.Identity) bool {
	if c == nil {
		return false
	}
	_, ok := c.signed[id]
	return ok
}

// Require returns ErrMissingRequiredSignature for the first id that did not sign.
func (c *Claims) Require(ids ...ledger.Identity) error {
	for _, id := range ids {
		if !c.Signed(id) {
			return fmt.Errorf("%w: %s", ErrMissingRequiredSignature, id.Short())
		}
	}
	return nil
}

// Len returns the number of signers.
func (c *Claims) Len() int {
	if c == nil {
		return 0
	}
	return len(c.signed)
}
