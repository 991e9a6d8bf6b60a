// Package processor is the media access state machine. It validates the
// accounts supplied with each instruction, applies the business rules, pays
// author and distributor through the token transfer service, and writes the
// Media and AccessTime records back into their storage accounts.
//
// The processor mutates the accounts it is handed and nothing else. Atomicity
// is the caller's job: on any error the caller must discard every change.
package processor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/token"
)

// ProgramID is the identity of the media access program.
var ProgramID = ledger.DeriveIdentity("mediapay/media-access-program")

// Transferer moves token balances between token accounts.
type Transferer interface {
	Transfer(req token.TransferRequest) error
}

// Processor executes decoded instructions.
type Processor struct {
	tokenProgram ledger.Identity
	transfers    Transferer
	logger       *zap.Logger
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTransferer replaces the token program used to move balances.
func WithTransferer(t Transferer) Option {
	return func(p *Processor) { p.transfers = t }
}

// New creates a Processor that expects token accounts owned by tokenProgram.
func New(tokenProgram ledger.Identity, opts ...Option) *Processor {
	p := &Processor{
		tokenProgram: tokenProgram,
		transfers:    token.NewProgram(tokenProgram),
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TokenProgram returns the token program identity token accounts must be owned by.
func (p *Processor) TokenProgram() ledger.Identity {
	return p.tokenProgram
}

// Process decodes data and runs the instruction against accounts.
func (p *Processor) Process(claims *signer.Claims, accounts []*ledger.Account, data []byte) error {
	ix, err := instruction.Decode(data)
	if err != nil {
		return err
	}
	return p.Execute(claims, accounts, ix)
}

// Execute runs an already decoded instruction.
func (p *Processor) Execute(claims *signer.Claims, accounts []*ledger.Account, ix instruction.Instruction) error {
	if ix == nil {
		return fmt.Errorf("%w: nil instruction", instruction.ErrInvalidInstruction)
	}
	log := p.logger.With(zap.Stringer("instruction", ix.Tag()))
	log.Debug("processing instruction", zap.Int("accounts", len(accounts)))

	var err error
	switch ix := ix.(type) {
	case instruction.CreateMedia:
		err = p.createMedia(log, claims, accounts, ix)
	case instruction.PurchaseAccessTime:
		err = p.purchaseAccessTime(log, claims, accounts, ix)
	case instruction.UpdateAccessTime:
		err = p.updateAccessTime(log, claims, accounts, ix)
	default:
		err = fmt.Errorf("%w: unsupported instruction %T", instruction.ErrInvalidInstruction, ix)
	}
	if err != nil {
		log.Debug("instruction failed", zap.Error(err))
	}
	return err
}

// accountCursor hands out the ordered accounts of an instruction.
type accountCursor struct {
	accounts []*ledger.Account
	next     int
}

func (c *accountCursor) take(role string) (*ledger.Account, error) {
	if c.next >= len(c.accounts) || c.accounts[c.next] == nil {
		return nil, fmt.Errorf("%w: missing %s (account %d)", ErrNotEnoughAccountKeys, role, c.next)
	}
	a := c.accounts[c.next]
	c.next++
	return a, nil
}

// rentFrom reads the rent policy carried by the rent sysvar account.
func rentFrom(acct *ledger.Account) (ledger.Rent, error) {
	if acct.ID != ledger.RentSysvarID {
		return ledger.Rent{}, fmt.Errorf("%w: got %s", ErrInvalidRentSysvar, acct.ID.Short())
	}
	return ledger.DeserializeRent(acct.Data)
}

// requireRentExempt fails unless acct can persist its current data size.
func requireRentExempt(rent ledger.Rent, acct *ledger.Account) error {
	if !rent.IsExempt(acct.Balance, len(acct.Data)) {
		return fmt.Errorf("%w: account %s holds %d, needs %d",
			ErrNotRentExempt, acct.ID.Short(), acct.Balance, rent.MinimumBalance(len(acct.Data)))
	}
	return nil
}

// requireTokenAccount fails unless acct is owned by the token program.
func (p *Processor) requireTokenAccount(acct *ledger.Account) error {
	if acct.Owner != p.tokenProgram {
		return fmt.Errorf("%w: token account %s owned by %s",
			ErrIncorrectProgramID, acct.ID.Short(), acct.Owner.Short())
	}
	return nil
}
