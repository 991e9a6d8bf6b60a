package server

import (
	"encoding/hex"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/processor"
	"github.com/bitfsorg/mediapay-go/state"
	"github.com/bitfsorg/mediapay-go/token"
)

// AccountView is the JSON rendering of an account. At most one of the typed
// views is set, chosen by owner and data size.
type AccountView struct {
	ID      string `json:"id"`
	Owner   string `json:"owner"`
	Balance uint64 `json:"balance"`
	Data    string `json:"data"`

	Media        *MediaView        `json:"media,omitempty"`
	AccessTime   *AccessTimeView   `json:"access_time,omitempty"`
	TokenAccount *TokenAccountView `json:"token_account,omitempty"`
	Rent         *RentView         `json:"rent,omitempty"`
}

type MediaView struct {
	Author              string `json:"author"`
	PricePerMinute      uint64 `json:"price_per_minute"`
	DistributorFee      uint64 `json:"distributor_fee"`
	ContentToken        string `json:"content_token"`
	ContentTokenAccount string `json:"content_token_account"`
}

type AccessTimeView struct {
	Owner     string `json:"owner"`
	TotalTime uint64 `json:"total_time"`
	TimeSpent uint64 `json:"time_spent"`
	Remaining uint64 `json:"remaining"`
}

type TokenAccountView struct {
	Mint   string `json:"mint"`
	Owner  string `json:"owner"`
	Amount uint64 `json:"amount"`
}

type RentView struct {
	LamportsPerByteYear uint64  `json:"lamports_per_byte_year"`
	ExemptionThreshold  float64 `json:"exemption_threshold"`
}

// NewAccountView renders acct, decoding its data when the owner and size
// identify a known record.
func NewAccountView(acct *ledger.Account, tokenProgram ledger.Identity) *AccountView {
	v := &AccountView{
		ID:      acct.ID.String(),
		Owner:   acct.Owner.String(),
		Balance: acct.Balance,
		Data:    hex.EncodeToString(acct.Data),
	}

	switch {
	case acct.ID == ledger.RentSysvarID:
		if r, err := ledger.DeserializeRent(acct.Data); err == nil {
			v.Rent = &RentView{LamportsPerByteYear: r.LamportsPerByteYear, ExemptionThreshold: r.ExemptionThreshold}
		}
	case acct.Owner == tokenProgram:
		if ta, err := token.DeserializeAccount(acct.Data); err == nil {
			v.TokenAccount = &TokenAccountView{Mint: ta.Mint.String(), Owner: ta.Owner.String(), Amount: ta.Amount}
		}
	case acct.Owner == processor.ProgramID && len(acct.Data) == state.MediaSize:
		if m, err := state.DeserializeMedia(acct.Data); err == nil {
			v.Media = &MediaView{
				Author:              ledger.Identity(m.Author).String(),
				PricePerMinute:      m.PricePerMinute,
				DistributorFee:      m.DistributorFee,
				ContentToken:        ledger.Identity(m.ContentToken).String(),
				ContentTokenAccount: ledger.Identity(m.ContentTokenAccount).String(),
			}
		}
	case acct.Owner == processor.ProgramID && len(acct.Data) == state.AccessTimeSize:
		if a, err := state.DeserializeAccessTime(acct.Data); err == nil {
			v.AccessTime = &AccessTimeView{
				Owner:     ledger.Identity(a.Owner).String(),
				TotalTime: a.TotalTime,
				TimeSpent: a.TimeSpent,
				Remaining: a.Remaining(),
			}
		}
	}
	return v
}
