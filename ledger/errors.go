package ledger

import "errors"

var (
	// ErrAccountNotFound indicates no account is stored under the identity.
	ErrAccountNotFound = errors.New("ledger: account not found")

	// ErrInvalidAccountData indicates a stored account record is malformed.
	ErrInvalidAccountData = errors.New("ledger: invalid account data")

	// ErrInvalidIdentity indicates an identity string is not 32 hex-encoded bytes.
	ErrInvalidIdentity = errors.New("ledger: invalid identity")

	// ErrInvalidRentData indicates the rent sysvar payload is malformed.
	ErrInvalidRentData = errors.New("ledger: invalid rent data")

	// ErrTxnClosed indicates the transaction was already committed or rolled back.
	ErrTxnClosed = errors.New("ledger: transaction closed")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")
)
