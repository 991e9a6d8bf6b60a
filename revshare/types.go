// Package revshare prices access purchases and splits each sale between the
// content author and the distributor.
package revshare

// Split is the division of one sale.
type Split struct {
	Total       uint64 // time_in_minute * price_per_minute
	Distributor uint64 // Routed to the distributor
	Author      uint64 // Remainder routed to the author
}
