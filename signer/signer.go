// Package signer turns signatures over an instruction envelope into a
// Claims value: the set of identities that approved the operation.
//
// Identities are SHA256(compressed secp256k1 public key). Signatures are DER
// encoded ECDSA over SHA256d(message).
package signer

import (
	"fmt"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/mediapay-go/ledger"
)

// CompressedPubKeyLen is the expected length of a compressed public key.
const CompressedPubKeyLen = 33

// Signature binds a public key to a DER signature.
type Signature struct {
	PubKey []byte // Compressed public key (33 bytes)
	Sig    []byte // DER-encoded ECDSA signature
}

// IdentityOf returns the ledger identity of a public key.
func IdentityOf(pub *ec.PublicKey) ledger.Identity {
	return identityOfCompressed(pub.Compressed())
}

func identityOfCompressed(compressed []byte) ledger.Identity {
	var id ledger.Identity
	copy(id[:], bsvhash.Sha256(compressed))
	return id
}

// Identity returns the identity the signature claims to come from.
func (s Signature) Identity() ledger.Identity {
	return identityOfCompressed(s.PubKey)
}

// Sign signs SHA256d(message) with priv.
func Sign(priv *ec.PrivateKey, message []byte) (Signature, error) {
	if priv == nil {
		return Signature{}, ErrNilPrivateKey
	}
	sig, err := priv.Sign(bsvhash.Sha256d(message))
	if err != nil {
		return Signature{}, fmt.Errorf("signer: sign: %w", err)
	}
	return Signature{
		PubKey: priv.PubKey().Compressed(),
		Sig:    sig.Serialize(),
	}, nil
}

// Verify checks every signature against message and returns the identities
// that signed. A single bad signature rejects the whole set.
func Verify(message []byte, sigs []Signature) (*Claims, error) {
	digest := bsvhash.Sha256d(message)
	claims := NewClaims()

	for i, s := range sigs {
		if len(s.PubKey) != CompressedPubKeyLen {
			return nil, fmt.Errorf("%w: signature %d: pubkey must be %d bytes, got %d",
				ErrInvalidPublicKey, i, CompressedPubKeyLen, len(s.PubKey))
		}
		pub, err := ec.ParsePubKey(s.PubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %w", ErrInvalidPublicKey, i, err)
		}
		sig, err := ec.ParseDERSignature(s.Sig)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %w", ErrInvalidSignature, i, err)
		}
		if !sig.Verify(digest, pub) {
			return nil, fmt.Errorf("%w: signature %d does not verify", ErrInvalidSignature, i)
		}
		claims.add(IdentityOf(pub))
	}
	return claims, nil
}
