package runtime

import "errors"

var (
	// ErrInvalidEnvelope indicates the envelope bytes are malformed.
	ErrInvalidEnvelope = errors.New("runtime: invalid envelope")

	// ErrUnknownProgram indicates the envelope targets a program the runtime does not host.
	ErrUnknownProgram = errors.New("runtime: unknown program")

	// ErrReadonlyModified indicates a program changed an account not marked writable.
	ErrReadonlyModified = errors.New("runtime: read-only account modified")

	// ErrDuplicateEnvelope indicates an identical envelope message already committed.
	ErrDuplicateEnvelope = errors.New("runtime: envelope already executed")

	// ErrHostAccount indicates an envelope or provisioning call named an account
	// the host keeps for itself.
	ErrHostAccount = errors.New("runtime: host-managed account")

	// ErrTooManyAccounts indicates an envelope lists more accounts than the format allows.
	ErrTooManyAccounts = errors.New("runtime: too many accounts")

	// ErrNilParam indicates a required parameter was nil.
	ErrNilParam = errors.New("runtime: nil parameter")
)
