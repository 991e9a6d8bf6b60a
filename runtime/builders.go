package runtime

import (
	"github.com/bitfsorg/mediapay-go/instruction"
	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/processor"
)

// CreateMediaParams names the accounts of a CreateMedia call.
type CreateMediaParams struct {
	Author              ledger.Identity
	ContentTokenAccount ledger.Identity
	Media               ledger.Identity
	ContentTokenProgram ledger.Identity
	PricePerMinute      uint64
	DistributorFee      uint64
}

// NewCreateMedia builds an unsigned CreateMedia envelope. The author must sign.
func NewCreateMedia(p CreateMediaParams) (*Envelope, error) {
	data, err := instruction.Encode(instruction.CreateMedia{
		PricePerMinute: p.PricePerMinute,
		DistributorFee: p.DistributorFee,
	})
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Program: processor.ProgramID,
		Accounts: []AccountMeta{
			Readonly(p.Author),
			Readonly(p.ContentTokenAccount),
			Writable(p.Media),
			Readonly(ledger.RentSysvarID),
			Readonly(p.ContentTokenProgram),
		},
		Data: data,
	}, nil
}

// PurchaseParams names the accounts of a PurchaseAccessTime call.
type PurchaseParams struct {
	Payer            ledger.Identity
	Buyer            ledger.Identity
	AccessTime       ledger.Identity
	Media            ledger.Identity
	AuthorToken      ledger.Identity
	DistributorToken ledger.Identity
	BuyerToken       ledger.Identity
	TokenProgram     ledger.Identity
	Minutes          uint64
}

// NewPurchaseAccessTime builds an unsigned PurchaseAccessTime envelope. Payer
// and buyer must both sign.
func NewPurchaseAccessTime(p PurchaseParams) (*Envelope, error) {
	data, err := instruction.Encode(instruction.PurchaseAccessTime{TimeInMinute: p.Minutes})
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Program: processor.ProgramID,
		Accounts: []AccountMeta{
			Writable(p.Payer),
			Readonly(p.Buyer),
			Writable(p.AccessTime),
			Readonly(p.Media),
			Writable(p.AuthorToken),
			Writable(p.DistributorToken),
			Writable(p.BuyerToken),
			Readonly(ledger.RentSysvarID),
			Readonly(p.TokenProgram),
		},
		Data: data,
	}, nil
}

// NewUpdateAccessTime builds an unsigned UpdateAccessTime envelope reporting
// minutes of cumulative consumption. The payer must sign.
func NewUpdateAccessTime(payer, accessTime ledger.Identity, minutes uint64) (*Envelope, error) {
	data, err := instruction.Encode(instruction.UpdateAccessTime{AccessTime: minutes})
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Program: processor.ProgramID,
		Accounts: []AccountMeta{
			Writable(payer),
			Writable(accessTime),
			Readonly(ledger.RentSysvarID),
		},
		Data: data,
	}, nil
}
