package keystore

import "errors"

var (
	// ErrDecryptionFailed indicates wrong password or corrupted key data.
	ErrDecryptionFailed = errors.New("keystore: decryption failed (wrong password or corrupted data)")

	// ErrChecksumMismatch indicates the key checksum did not verify after decryption.
	ErrChecksumMismatch = errors.New("keystore: key checksum mismatch")

	// ErrNilKey indicates a nil private key was supplied.
	ErrNilKey = errors.New("keystore: nil private key")

	// ErrInvalidName indicates a key name that cannot be used as a file name.
	ErrInvalidName = errors.New("keystore: invalid key name")

	// ErrKeyExists indicates a key file is already present.
	ErrKeyExists = errors.New("keystore: key already exists")

	// ErrKeyNotFound indicates no key file exists under the name.
	ErrKeyNotFound = errors.New("keystore: key not found")
)
