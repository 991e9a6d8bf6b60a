package runtime

import (
	"context"
	"fmt"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/processor"
	"github.com/bitfsorg/mediapay-go/token"
)

// Fund credits amount to the native balance of id, creating the account if needed.
func (rt *Runtime) Fund(ctx context.Context, id ledger.Identity, amount uint64) error {
	return rt.Provision(ctx, []ledger.Identity{id}, func(accts []*ledger.Account) error {
		balance, ok := ledger.CheckedAdd(accts[0].Balance, amount)
		if !ok {
			return fmt.Errorf("%w: fund %s", processor.ErrAmountOverflow, id.Short())
		}
		accts[0].Balance = balance
		return nil
	})
}

// AllocateStorage creates a zeroed, rent-exempt storage account of size bytes
// owned by the media access program. Any existing contents are replaced.
func (rt *Runtime) AllocateStorage(ctx context.Context, id ledger.Identity, size int) error {
	minimum := rt.rent.MinimumBalance(size)
	return rt.Provision(ctx, []ledger.Identity{id}, func(accts []*ledger.Account) error {
		acct := accts[0]
		acct.Owner = processor.ProgramID
		acct.Data = make([]byte, size)
		if acct.Balance < minimum {
			acct.Balance = minimum
		}
		return nil
	})
}

// CreateTokenAccount creates a rent-exempt token account for owner holding mint.
func (rt *Runtime) CreateTokenAccount(ctx context.Context, id, mint, owner ledger.Identity) error {
	program := token.NewProgram(rt.tokenProgram)
	minimum := rt.rent.MinimumBalance(token.AccountSize)
	return rt.Provision(ctx, []ledger.Identity{id}, func(accts []*ledger.Account) error {
		acct := accts[0]
		if err := program.InitializeAccount(acct, mint, owner); err != nil {
			return err
		}
		if acct.Balance < minimum {
			acct.Balance = minimum
		}
		return nil
	})
}

// MintTokens credits amount new tokens to the token account id.
func (rt *Runtime) MintTokens(ctx context.Context, id ledger.Identity, amount uint64) error {
	program := token.NewProgram(rt.tokenProgram)
	return rt.Provision(ctx, []ledger.Identity{id}, func(accts []*ledger.Account) error {
		return program.MintTo(accts[0], amount)
	})
}
