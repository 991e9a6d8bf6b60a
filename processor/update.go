package processor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
)

// updateAccessTime records cumulative consumption. Once the reported time
// reaches the purchased total the record is closed: its balance moves to the
// payer and the account is cleared so the ledger reclaims it.
func (p *Processor) updateAccessTime(log *zap.Logger, claims *signer.Claims, accounts []*ledger.Account, ix instruction.UpdateAccessTime) error {
	cur := &accountCursor{accounts: accounts}

	payer, err := cur.take("payer")
	if err != nil {
		return err
	}
	if err := claims.Require(payer.ID); err != nil {
		return err
	}

	storage, err := cur.take("access time storage")
	if err != nil {
		return err
	}
	if storage.ID == payer.ID {
		return fmt.Errorf("%w: %s", ErrAccountAliased, payer.ID.Short())
	}
	access, err := state.DeserializeAccessTime(storage.Data)
	if err != nil {
		return err
	}

	if access.TimeSpent > ix.AccessTime {
		return fmt.Errorf("%w: recorded %d, reported %d", ErrAccessTimeCannotReduce, access.TimeSpent, ix.AccessTime)
	}
	access.TimeSpent = ix.AccessTime

	if !access.Exhausted() {
		if err := state.PackAccessTime(access, storage.Data); err != nil {
			return err
		}
		log.Debug("access time updated",
			zap.Stringer("access", storage.ID),
			zap.Uint64("time_spent", access.TimeSpent),
			zap.Uint64("total_time", access.TotalTime))
		return nil
	}

	reclaimed := storage.Balance
	balance, ok := ledger.CheckedAdd(payer.Balance, reclaimed)
	if !ok {
		return fmt.Errorf("%w: payer balance %d + %d", ErrAmountOverflow, payer.Balance, reclaimed)
	}
	payer.Balance = balance
	storage.Clear()

	log.Info("access time exhausted, account closed",
		zap.Stringer("access", storage.ID),
		zap.Stringer("owner", ledger.Identity(access.Owner)),
		zap.Uint64("reclaimed", reclaimed))
	return nil
}
