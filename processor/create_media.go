package processor

import (
	"go.uber.org/zap"

	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
)

// createMedia registers (or re-registers) the author's terms in the media
// storage account. The slot is written blind: whatever it held before is
// replaced field by field.
func (p *Processor) createMedia(log *zap.Logger, claims *signer.Claims, accounts []*ledger.Account, ix instruction.CreateMedia) error {
	cur := &accountCursor{accounts: accounts}

	author, err := cur.take("author")
	if err != nil {
		return err
	}
	if err := claims.Require(author.ID); err != nil {
		return err
	}

	contentTokenAccount, err := cur.take("content token account")
	if err != nil {
		return err
	}
	if err := p.requireTokenAccount(contentTokenAccount); err != nil {
		return err
	}

	storage, err := cur.take("media storage")
	if err != nil {
		return err
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

	contentToken, err := cur.take("content token program")
	if err != nil {
		return err
	}

	media := &state.Media{
		Author:              author.ID,
		PricePerMinute:      ix.PricePerMinute,
		DistributorFee:      ix.DistributorFee,
		ContentToken:        contentToken.ID,
		ContentTokenAccount: contentTokenAccount.ID,
	}
	if err := state.PackMedia(media, storage.Data); err != nil {
		return err
	}

	log.Info("media created",
		zap.Stringer("author", author.ID),
		zap.Stringer("media", storage.ID),
		zap.Uint64("price_per_minute", ix.PricePerMinute),
		zap.Uint64("distributor_fee", ix.DistributorFee))
	return nil
}
