package processor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
	"github.com/bitfsorg/mediapay-go/state"
	"github.com/bitfsorg/mediapay-go/token"
)

var (
	mint              = ledger.DeriveIdentity("test/mint")
	authorID          = ledger.DeriveIdentity("test/author")
	buyerID           = ledger.DeriveIdentity("test/buyer")
	payerID           = ledger.DeriveIdentity("test/payer")
	distributorID     = ledger.DeriveIdentity("test/distributor")
	contentProgramID  = ledger.DeriveIdentity("test/content-token-program")
	testRent          = ledger.DefaultRent
	mediaMinimum      = testRent.MinimumBalance(state.MediaSize)
	accessTimeMinimum = testRent.MinimumBalance(state.AccessTimeSize)
)

// recordingTransferer wraps the token program, records every request and can
// fail the nth call (1-based).
type recordingTransferer struct {
	program  *token.Program
	requests []token.TransferRequest
	failOn   int
	failWith error
}

func newRecorder() *recordingTransferer {
	return &recordingTransferer{program: token.NewProgram(token.ProgramID)}
}

func (r *recordingTransferer) Transfer(req token.TransferRequest) error {
	r.requests = append(r.requests, req)
	if r.failOn == len(r.requests) {
		return r.failWith
	}
	return r.program.Transfer(req)
}

func newProcessor(rec *recordingTransferer) *Processor {
	return New(token.ProgramID, WithTransferer(rec))
}

func systemAccount(id ledger.Identity, balance uint64) *ledger.Account {
	return &ledger.Account{ID: id, Owner: ledger.SystemProgramID, Balance: balance}
}

func storageAccount(label string, size int, balance uint64) *ledger.Account {
	return ledger.NewAccount(ledger.DeriveIdentity(label), ProgramID, balance, size)
}

func tokenAccount(t *testing.T, label string, owner ledger.Identity, amount uint64) *ledger.Account {
	t.Helper()
	p := token.NewProgram(token.ProgramID)
	acct := ledger.NewAccount(ledger.DeriveIdentity(label), ledger.SystemProgramID, 1, 0)
	require.NoError(t, p.InitializeAccount(acct, mint, owner))
	require.NoError(t, p.MintTo(acct, amount))
	return acct
}

func tokenBalance(t *testing.T, acct *ledger.Account) uint64 {
	t.Helper()
	ta, err := token.DeserializeAccount(acct.Data)
	require.NoError(t, err)
	return ta.Amount
}

func rentAccount() *ledger.Account {
	return ledger.RentSysvar(testRent)
}

func tokenProgramAccount() *ledger.Account {
	return &ledger.Account{ID: token.ProgramID}
}

// purchaseSetup holds the nine accounts of a PurchaseAccessTime call.
type purchaseSetup struct {
	payer, buyer, access, media             *ledger.Account
	authorToken, distributorToken, buyerTok *ledger.Account
	rent, tokenProgram                      *ledger.Account
	claims                                  *signer.Claims
}

func newPurchaseSetup(t *testing.T, price, fee, buyerBalance uint64) *purchaseSetup {
	t.Helper()
	media := storageAccount("media", state.MediaSize, mediaMinimum)
	require.NoError(t, state.PackMedia(&state.Media{
		Author:         authorID,
		PricePerMinute: price,
		DistributorFee: fee,
	}, media.Data))

	return &purchaseSetup{
		payer:            systemAccount(payerID, 10_000_000),
		buyer:            systemAccount(buyerID, 0),
		access:           storageAccount("access", state.AccessTimeSize, accessTimeMinimum),
		media:            media,
		authorToken:      tokenAccount(t, "author-token", authorID, 0),
		distributorToken: tokenAccount(t, "distributor-token", distributorID, 0),
		buyerTok:         tokenAccount(t, "buyer-token", buyerID, buyerBalance),
		rent:             rentAccount(),
		tokenProgram:     tokenProgramAccount(),
		claims:           signer.NewClaims(payerID, buyerID),
	}
}

func (s *purchaseSetup) accounts() []*ledger.Account {
	return []*ledger.Account{
		s.payer, s.buyer, s.access, s.media,
		s.authorToken, s.distributorToken, s.buyerTok,
		s.rent, s.tokenProgram,
	}
}
