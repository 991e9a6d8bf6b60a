package token

import "errors"

var (
	// ErrIncorrectProgramID indicates an account is not owned by the token program
	// or a request addressed a different program.
	ErrIncorrectProgramID = errors.New("token: incorrect program id")

	// ErrInvalidAccountData indicates token account data has the wrong size.
	ErrInvalidAccountData = errors.New("token: invalid token account data")

	// ErrAlreadyInitialized indicates the account already holds a token account.
	ErrAlreadyInitialized = errors.New("token: account already initialized")

	// ErrOwnerMismatch indicates the authority does not own the source account.
	ErrOwnerMismatch = errors.New("token: owner does not match")

	// ErrMintMismatch indicates source and destination hold different tokens.
	ErrMintMismatch = errors.New("token: mint mismatch")

	// ErrInsufficientFunds indicates the source balance is below the amount.
	ErrInsufficientFunds = errors.New("token: insufficient funds")

	// ErrAmountOverflow indicates a balance would overflow u64.
	ErrAmountOverflow = errors.New("token: amount overflow")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("token: required parameter is nil")
)
