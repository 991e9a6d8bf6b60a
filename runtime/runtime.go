// Package runtime is the host boundary of the media access program. It
// verifies envelope signatures, loads the named accounts inside a ledger
// transaction, runs the target program and commits the result only when the
// program succeeds. Submissions are serialized, and each committed message
// is recorded in the ledger so that a replayed envelope is rejected.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/processor"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/token"
)

// Program executes instruction data against the accounts of an envelope.
type Program interface {
	Process(claims *signer.Claims, accounts []*ledger.Account, data []byte) error
}

// Receipt reports the outcome of a submitted envelope.
type Receipt struct {
	ID          ledger.Identity   // Envelope ID
	Instruction string            // Instruction name, "unknown" if undecodable
	Code        processor.Code    // Error code; meaningful only when Err != nil
	Err         error             // Nil on success
	Modified    []ledger.Identity // Accounts written on commit
}

// OK reports whether the envelope committed.
func (r *Receipt) OK() bool { return r.Err == nil }

// Runtime hosts programs over a ledger store.
type Runtime struct {
	mu       sync.Mutex
	store    ledger.Store
	rent     ledger.Rent
	programs map[ledger.Identity]Program
	logger   *zap.Logger
	metrics  *metrics

	registerer   prometheus.Registerer
	tokenProgram ledger.Identity
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithRent overrides the rent policy published through the rent sysvar.
func WithRent(r ledger.Rent) Option {
	return func(rt *Runtime) { rt.rent = r }
}

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(rt *Runtime) {
		if logger != nil {
			rt.logger = logger
		}
	}
}

// WithRegisterer registers the runtime metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(rt *Runtime) { rt.registerer = reg }
}

// WithTokenProgram sets the token program the media program pays through.
func WithTokenProgram(id ledger.Identity) Option {
	return func(rt *Runtime) { rt.tokenProgram = id }
}

// WithProgram hosts p under id, replacing any default.
func WithProgram(id ledger.Identity, p Program) Option {
	return func(rt *Runtime) { rt.programs[id] = p }
}

// New creates a Runtime over store. Unless overridden, the media access
// program is hosted under processor.ProgramID.
func New(store ledger.Store, opts ...Option) (*Runtime, error) {
	if store == nil {
		return nil, ErrNilParam
	}
	rt := &Runtime{
		store:        store,
		rent:         ledger.DefaultRent,
		programs:     make(map[ledger.Identity]Program),
		logger:       zap.NewNop(),
		tokenProgram: token.ProgramID,
	}
	for _, opt := range opts {
		opt(rt)
	}
	if _, ok := rt.programs[processor.ProgramID]; !ok {
		rt.programs[processor.ProgramID] = processor.New(rt.tokenProgram,
			processor.WithLogger(rt.logger.Named("processor")))
	}
	rt.metrics = newMetrics(rt.registerer)
	return rt, nil
}

// Rent returns the rent policy in force.
func (rt *Runtime) Rent() ledger.Rent { return rt.rent }

// TokenProgram returns the token program identity the media program uses.
func (rt *Runtime) TokenProgram() ledger.Identity { return rt.tokenProgram }

// Submit executes env. A non-nil Receipt is returned whenever the envelope
// reached a program; the returned error then equals Receipt.Err. Either every
// account change commits or none does.
func (rt *Runtime) Submit(ctx context.Context, env *Envelope) (*Receipt, error) {
	if env == nil {
		return nil, ErrNilParam
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	// Another submission may have held the lock past the deadline.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	program, ok := rt.programs[env.Program]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProgram, env.Program.Short())
	}
	id := env.ID()
	if err := rt.checkFresh(id); err != nil {
		return nil, err
	}
	claims, err := signer.Verify(env.Message(), env.Signatures)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{ID: id, Instruction: instructionName(env)}
	log := rt.logger.With(
		zap.String("instruction", receipt.Instruction),
		zap.Stringer("envelope", id))

	start := time.Now()
	receipt.Modified, receipt.Err = rt.execute(program, claims, env, id)
	rt.metrics.observe(receipt.Instruction, receipt.Err, time.Since(start))

	if receipt.Err != nil {
		receipt.Code, _ = processor.CodeOf(receipt.Err)
		log.Info("instruction rejected",
			zap.Stringer("code", receipt.Code),
			zap.Error(receipt.Err))
		return receipt, receipt.Err
	}
	log.Debug("instruction committed", zap.Int("modified", len(receipt.Modified)))
	return receipt, nil
}

// checkFresh fails when the envelope id has already committed.
func (rt *Runtime) checkFresh(id ledger.Identity) error {
	_, err := rt.store.Get(executedMarker(id))
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s", ErrDuplicateEnvelope, id.Short())
	case errors.Is(err, ledger.ErrAccountNotFound):
		return nil
	default:
		return err
	}
}

// executedMarker is the host account recording that envelope id committed.
func executedMarker(id ledger.Identity) ledger.Identity {
	return ledger.DeriveIdentity("mediapay/executed/" + id.String())
}

func (rt *Runtime) execute(program Program, claims *signer.Claims, env *Envelope, id ledger.Identity) ([]ledger.Identity, error) {
	txn := ledger.Begin(rt.store)
	committed := false
	defer func() {
		if !committed {
			txn.Rollback()
		}
	}()

	writable := make(map[ledger.Identity]bool, len(env.Accounts))
	for _, m := range env.Accounts {
		if m.Writable {
			writable[m.ID] = true
		}
	}

	marker := executedMarker(id)
	var sysvar *ledger.Account
	accounts := make([]*ledger.Account, len(env.Accounts))
	for i, m := range env.Accounts {
		if m.ID == marker {
			return nil, fmt.Errorf("%w: %s", ErrHostAccount, m.ID.Short())
		}
		if m.ID == ledger.RentSysvarID {
			if sysvar == nil {
				sysvar = ledger.RentSysvar(rt.rent)
			}
			accounts[i] = sysvar
			continue
		}
		acct, err := txn.Load(m.ID)
		if err != nil {
			return nil, err
		}
		if acct.Owner == ledger.HostProgramID {
			return nil, fmt.Errorf("%w: %s", ErrHostAccount, m.ID.Short())
		}
		accounts[i] = acct
	}

	if err := program.Process(claims, accounts, env.Data); err != nil {
		return nil, err
	}

	if sysvar != nil && !sysvar.Equal(ledger.RentSysvar(rt.rent)) {
		return nil, fmt.Errorf("%w: rent sysvar", ErrReadonlyModified)
	}
	var modified []ledger.Identity
	seen := make(map[ledger.Identity]bool, len(env.Accounts))
	for _, m := range env.Accounts {
		if m.ID == ledger.RentSysvarID || seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		if !txn.Modified(m.ID) {
			continue
		}
		if !writable[m.ID] {
			return nil, fmt.Errorf("%w: %s", ErrReadonlyModified, m.ID.Short())
		}
		modified = append(modified, m.ID)
	}

	record, err := txn.Load(marker)
	if err != nil {
		return nil, err
	}
	record.Owner = ledger.HostProgramID

	committed = true
	if err := txn.Commit(); err != nil {
		return nil, err
	}
	return modified, nil
}

// Provision runs fn over the listed accounts in a transaction outside any
// program and commits its changes. Operators use it to create, allocate and
// fund accounts before instructions reference them.
func (rt *Runtime) Provision(ctx context.Context, ids []ledger.Identity, fn func(accounts []*ledger.Account) error) error {
	if fn == nil {
		return ErrNilParam
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	txn := ledger.Begin(rt.store)
	accounts := make([]*ledger.Account, len(ids))
	for i, id := range ids {
		if id == ledger.RentSysvarID {
			txn.Rollback()
			return fmt.Errorf("%w: rent sysvar is host managed", ErrReadonlyModified)
		}
		acct, err := txn.Load(id)
		if err != nil {
			txn.Rollback()
			return err
		}
		if acct.Owner == ledger.HostProgramID {
			txn.Rollback()
			return fmt.Errorf("%w: %s", ErrHostAccount, id.Short())
		}
		accounts[i] = acct
	}
	if err := fn(accounts); err != nil {
		txn.Rollback()
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	rt.logger.Debug("accounts provisioned", zap.Int("accounts", len(ids)))
	return nil
}

// Account returns a snapshot of the stored account. The rent sysvar is
// synthesized from the runtime's policy.
func (rt *Runtime) Account(id ledger.Identity) (*ledger.Account, error) {
	if id == ledger.RentSysvarID {
		return ledger.RentSysvar(rt.rent), nil
	}
	acct, err := rt.store.Get(id)
	if err != nil {
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: %s", ledger.ErrAccountNotFound, id.Short())
		}
		return nil, err
	}
	return acct, nil
}

func instructionName(env *Envelope) string {
	if env.Program != processor.ProgramID {
		return "unknown"
	}
	ix, err := instruction.Decode(env.Data)
	if err != nil {
		return "invalid"
	}
	return ix.Tag().String()
}
