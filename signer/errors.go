package signer

import "errors"

var (
	// ErrMissingRequiredSignature indicates an identity that must sign did not.
	ErrMissingRequiredSignature = errors.New("signer: missing required signature")

	// ErrInvalidSignature indicates a signature failed to parse or verify.
	ErrInvalidSignature = errors.New("signer: invalid signature")

	// ErrInvalidPublicKey indicates a public key is not a valid compressed secp256k1 point.
	ErrInvalidPublicKey = errors.New("signer: invalid public key")

	// ErrNilPrivateKey indicates a nil private key was supplied.
	ErrNilPrivateKey = errors.New("signer: private key is nil")
)
