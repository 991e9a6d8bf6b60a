// Package state defines the two fixed-size records persisted in ledger
// storage accounts: Media (the author's terms for a piece of content) and
// AccessTime (a buyer's purchased block of minutes).
//
// Both records are packed at fixed offsets with little-endian integers:
//
//	Media:      author(32) | price_per_minute(8) | distributor_fee(8) | content_token(32) | content_token_account(32)
//	AccessTime: owner(32)  | total_time(8)       | time_spent(8)
package state

const (
	// LayoutVersion identifies the byte layout below. Any change to field
	// order or width requires a new version and new round-trip tests.
	LayoutVersion = 1

	// IdentitySize is the width of every identity field.
	IdentitySize = 32

	// MediaSize is the packed size of a Media record.
	MediaSize = 112 // author(32) + price(8) + fee(8) + content_token(32) + content_token_account(32)

	// AccessTimeSize is the packed size of an AccessTime record.
	AccessTimeSize = 48 // owner(32) + total_time(8) + time_spent(8)
)

// Media holds the terms an author registered for a piece of content.
type Media struct {
	Author              [32]byte // Entitled to the author's share of every sale
	PricePerMinute      uint64   // Token base units per minute of access
	DistributorFee      uint64   // Percentage (0-100) of a sale routed to the distributor
	ContentToken        [32]byte // Token registration describing the content
	ContentTokenAccount [32]byte // Token account holding the content token
}

// AccessTime tracks a buyer's purchased minutes and consumption.
type AccessTime struct {
	Owner     [32]byte // Buyer that purchased the block
	TotalTime uint64   // Minutes purchased
	TimeSpent uint64   // Minutes consumed so far, never decreases
}

// Remaining returns the unconsumed minutes, or zero once exhausted.
func (a *AccessTime) Remaining() uint64 {
	if a.TimeSpent >= a.TotalTime {
		return 0
	}
	return a.TotalTime - a.TimeSpent
}

// Exhausted reports whether consumption has reached the purchased total.
func (a *AccessTime) Exhausted() bool {
	return a.TimeSpent >= a.TotalTime
}
