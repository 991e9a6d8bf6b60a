// Package token is the transfer service media purchases pay through. Token
// balances live in ledger accounts owned by the token program; the program
// moves value between them when the source owner has signed.
package token

import (
	"fmt"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
)

// ProgramID is the identity of the default token program.
var ProgramID = ledger.DeriveIdentity("mediapay/token-program")

// TransferRequest moves Amount from From to To under Authority's signature.
type TransferRequest struct {
	Program   ledger.Identity
	From      *ledger.Account
	To        *ledger.Account
	Authority ledger.Identity
	Claims    *signer.Claims
	Amount    uint64
}

// Program implements the token transfer service for one program identity.
type Program struct {
	ID ledger.Identity
}

// NewProgram returns a Program for id.
func NewProgram(id ledger.Identity) *Program {
	return &Program{ID: id}
}

// Owns reports whether acct is owned by this program.
func (p *Program) Owns(acct *ledger.Account) bool {
	return acct != nil && acct.Owner == p.ID
}

// Balance reads the token balance held by acct.
func (p *Program) Balance(acct *ledger.Account) (uint64, error) {
	ta, err := p.load(acct)
	if err != nil {
		return 0, err
	}
	return ta.Amount, nil
}

// Transfer debits req.From and credits req.To. The source owner must be the
// authority and must have signed. A transfer to the same account is a no-op.
func (p *Program) Transfer(req TransferRequest) error {
	if req.Program != p.ID {
		return fmt.Errorf("%w: request for %s, program is %s", ErrIncorrectProgramID, req.Program.Short(), p.ID.Short())
	}
	from, err := p.load(req.From)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	to, err := p.load(req.To)
	if err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	if from.Owner != req.Authority {
		return fmt.Errorf("%w: source owned by %s, authority %s", ErrOwnerMismatch, from.Owner.Short(), req.Authority.Short())
	}
	if err := req.Claims.Require(req.Authority); err != nil {
		return err
	}
	if from.Mint != to.Mint {
		return ErrMintMismatch
	}
	if req.From.ID == req.To.ID {
		return nil
	}

	debited, ok := ledger.CheckedSub(from.Amount, req.Amount)
	if !ok {
		return fmt.Errorf("%w: balance %d, amount %d", ErrInsufficientFunds, from.Amount, req.Amount)
	}
	credited, ok := ledger.CheckedAdd(to.Amount, req.Amount)
	if !ok {
		return ErrAmountOverflow
	}
	from.Amount = debited
	to.Amount = credited
	req.From.Data = SerializeAccount(from)
	req.To.Data = SerializeAccount(to)
	return nil
}

// InitializeAccount claims acct for the program and records mint and owner.
func (p *Program) InitializeAccount(acct *ledger.Account, mint, owner ledger.Identity) error {
	if acct == nil {
		return ErrNilParam
	}
	if acct.Owner == p.ID {
		return ErrAlreadyInitialized
	}
	if acct.Owner != ledger.SystemProgramID {
		return fmt.Errorf("%w: account owned by %s", ErrIncorrectProgramID, acct.Owner.Short())
	}
	acct.Owner = p.ID
	acct.Data = SerializeAccount(&Account{Mint: mint, Owner: owner})
	return nil
}

// MintTo credits amount new tokens to acct.
func (p *Program) MintTo(acct *ledger.Account, amount uint64) error {
	ta, err := p.load(acct)
	if err != nil {
		return err
	}
	sum, ok := ledger.CheckedAdd(ta.Amount, amount)
	if !ok {
		return ErrAmountOverflow
	}
	ta.Amount = sum
	acct.Data = SerializeAccount(ta)
	return nil
}

func (p *Program) load(acct *ledger.Account) (*Account, error) {
	if acct == nil {
		return nil, ErrNilParam
	}
	if !p.Owns(acct) {
		return nil, fmt.Errorf("%w: account %s owned by %s", ErrIncorrectProgramID, acct.ID.Short(), acct.Owner.Short())
	}
	return DeserializeAccount(acct.Data)
}
