package processor

import (
	"errors"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
	"github.com/bitfsorg/mediapay-go/token"
)

var (
	// ErrNotRentExempt indicates a storage account balance is below the rent-exempt minimum.
	ErrNotRentExempt = errors.New("processor: not rent exempt")

	// ErrExpectedAmountMismatch indicates the transferred amounts do not add up to the sale total.
	ErrExpectedAmountMismatch = errors.New("processor: expected amount mismatch")

	// ErrInsufficientTokenBalance indicates the buyer cannot cover the total cost.
	ErrInsufficientTokenBalance = errors.New("processor: insufficient token balance")

	// ErrAccessTimeCannotReduce indicates reported consumption is below what was already recorded.
	ErrAccessTimeCannotReduce = errors.New("processor: access time cannot reduce")

	// ErrAmountOverflow indicates cost or balance arithmetic overflowed.
	ErrAmountOverflow = errors.New("processor: amount overflow")

	// ErrIncorrectProgramID indicates an account is not owned by the expected program.
	ErrIncorrectProgramID = errors.New("processor: incorrect program id")

	// ErrNotEnoughAccountKeys indicates the instruction was given too few accounts.
	ErrNotEnoughAccountKeys = errors.New("processor: not enough account keys")

	// ErrInvalidRentSysvar indicates the rent input is not the rent sysvar.
	ErrInvalidRentSysvar = errors.New("processor: invalid rent sysvar")

	// ErrAccountAliased indicates the payer was also passed as the access time storage.
	ErrAccountAliased = errors.New("processor: payer cannot be the access time storage")
)

// Code is the stable numeric error code reported to callers.
type Code uint32

// Program error codes.
const (
	CodeInvalidInstruction Code = iota
	CodeNotRentExempt
	CodeExpectedAmountMismatch
	CodeInsufficientTokenBalance
	CodeAccessTimeCannotReduce
	CodeAmountOverflow
)

// Host error categories.
const (
	CodeMissingRequiredSignature Code = 0x100 + iota
	CodeIncorrectProgramID
	CodeNotEnoughAccountKeys
	CodeInvalidAccountData
	CodeInvalidArgument
	CodeUnknown
)

var codeNames = map[Code]string{
	CodeInvalidInstruction:       "InvalidInstruction",
	CodeNotRentExempt:            "NotRentExempt",
	CodeExpectedAmountMismatch:   "ExpectedAmountMismatch",
	CodeInsufficientTokenBalance: "InsufficientTokenBalance",
	CodeAccessTimeCannotReduce:   "AccessTimeCannotReduce",
	CodeAmountOverflow:           "AmountOverflow",
	CodeMissingRequiredSignature: "MissingRequiredSignature",
	CodeIncorrectProgramID:       "IncorrectProgramId",
	CodeNotEnoughAccountKeys:     "NotEnoughAccountKeys",
	CodeInvalidAccountData:       "InvalidAccountData",
	CodeInvalidArgument:          "InvalidArgument",
	CodeUnknown:                  "Unknown",
}

// String returns the error category name.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "Unknown"
}

// CodeOf maps an error returned by Process to its code. Nil maps to false.
func CodeOf(err error) (Code, bool) {
	if err == nil {
		return 0, false
	}
	switch {
	case errors.Is(err, instruction.ErrInvalidInstruction):
		return CodeInvalidInstruction, true
	case errors.Is(err, ErrNotRentExempt):
		return CodeNotRentExempt, true
	case errors.Is(err, ErrExpectedAmountMismatch):
		return CodeExpectedAmountMismatch, true
	case errors.Is(err, ErrInsufficientTokenBalance), errors.Is(err, token.ErrInsufficientFunds):
		return CodeInsufficientTokenBalance, true
	case errors.Is(err, ErrAccessTimeCannotReduce):
		return CodeAccessTimeCannotReduce, true
	case errors.Is(err, ErrAmountOverflow), errors.Is(err, token.ErrAmountOverflow):
		return CodeAmountOverflow, true
	case errors.Is(err, signer.ErrMissingRequiredSignature):
		return CodeMissingRequiredSignature, true
	case errors.Is(err, ErrIncorrectProgramID), errors.Is(err, token.ErrIncorrectProgramID):
		return CodeIncorrectProgramID, true
	case errors.Is(err, ErrNotEnoughAccountKeys):
		return CodeNotEnoughAccountKeys, true
	case errors.Is(err, state.ErrInvalidMediaData), errors.Is(err, state.ErrInvalidAccessTimeData),
		errors.Is(err, token.ErrInvalidAccountData), errors.Is(err, ledger.ErrInvalidRentData):
		return CodeInvalidAccountData, true
	case errors.Is(err, ErrInvalidRentSysvar), errors.Is(err, ErrAccountAliased), errors.Is(err, token.ErrOwnerMismatch), errors.Is(err, token.ErrMintMismatch):
		return CodeInvalidArgument, true
	default:
		return CodeUnknown, true
	}
}
