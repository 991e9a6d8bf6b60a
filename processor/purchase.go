package processor

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/revshare"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
	"github.com/bitfsorg/mediapay-go/token"
)

// purchaseAccessTime charges the buyer for ix.TimeInMinute minutes, pays the
// distributor then the author, and writes a fresh AccessTime record. Any
// record already in the slot is replaced, not extended.
func (p *Processor) purchaseAccessTime(log *zap.Logger, claims *signer.Claims, accounts []*ledger.Account, ix instruction.PurchaseAccessTime) error {
	cur := &accountCursor{accounts: accounts}

	payer, err := cur.take("payer")
	if err != nil {
		return err
	}
	buyer, err := cur.take("buyer")
	if err != nil {
		return err
	}
	if err := claims.Require(payer.ID, buyer.ID); err != nil {
		return err
	}

	storage, err := cur.take("access time storage")
	if err != nil {
		return err
	}
	if storage.ID == payer.ID {
		return fmt.Errorf("%w: %s", ErrAccountAliased, payer.ID.Short())
	}
	mediaAcct, err := cur.take("media storage")
	if err != nil {
		return err
	}
	authorToken, err := cur.take("author token account")
	if err != nil {
		return err
	}
	distributorToken, err := cur.take("distributor token account")
	if err != nil {
		return err
	}
	buyerToken, err := cur.take("buyer token account")
	if err != nil {
		return err
	}
	for _, acct := range []*ledger.Account{authorToken, distributorToken, buyerToken} {
		if err := p.requireTokenAccount(acct); err != nil {
			return err
		}
	}

	rentAcct, err := cur.take("rent sysvar")
	if err != nil {
		return err
	}
	rent, err := rentFrom(rentAcct)
	if err != nil {
		return err
	}
	if err := requireRentExempt(rent, storage); err != nil {
		return err
	}

	tokenProgram, err := cur.take("token program")
	if err != nil {
		return err
	}

	if len(storage.Data) != state.AccessTimeSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", state.ErrInvalidAccessTimeData, state.AccessTimeSize, len(storage.Data))
	}
	media, err := state.DeserializeMedia(mediaAcct.Data)
	if err != nil {
		return err
	}
	snapshot, err := token.DeserializeAccount(buyerToken.Data)
	if err != nil {
		return err
	}

	total, err := revshare.TotalCost(ix.TimeInMinute, media.PricePerMinute)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAmountOverflow, err)
	}
	if snapshot.Amount < total {
		return fmt.Errorf("%w: balance %d, cost %d", ErrInsufficientTokenBalance, snapshot.Amount, total)
	}

	split, err := revshare.SplitSale(total, media.DistributorFee)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAmountOverflow, err)
	}
	if err := revshare.ValidateConservation(split); err != nil {
		return fmt.Errorf("%w: %w", ErrExpectedAmountMismatch, err)
	}

	payments := []struct {
		to     *ledger.Account
		amount uint64
		role   string
	}{
		{distributorToken, split.Distributor, "distributor"},
		{authorToken, split.Author, "author"},
	}
	for _, pay := range payments {
		err := p.transfers.Transfer(token.TransferRequest{
			Program:   tokenProgram.ID,
			From:      buyerToken,
			To:        pay.to,
			Authority: buyer.ID,
			Claims:    claims,
			Amount:    pay.amount,
		})
		if err != nil {
			return fmt.Errorf("processor: pay %s: %w", pay.role, err)
		}
	}

	access := &state.AccessTime{Owner: buyer.ID, TotalTime: ix.TimeInMinute}
	if err := state.PackAccessTime(access, storage.Data); err != nil {
		return err
	}

	log.Info("access time purchased",
		zap.Stringer("buyer", buyer.ID),
		zap.Stringer("media", mediaAcct.ID),
		zap.Uint64("minutes", ix.TimeInMinute),
		zap.Uint64("total_cost", split.Total),
		zap.Uint64("distributor_share", split.Distributor),
		zap.Uint64("author_share", split.Author))
	return nil
}
