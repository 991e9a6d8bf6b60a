package ledger

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// AccountStorageOverhead is charged on top of the data size of every account.
	AccountStorageOverhead = 128

	// RentSize is the encoded size of the rent sysvar:
	// lamports_per_byte_year(8) + exemption_threshold(8) + burn_percent(1).
	RentSize = 17
)

// Rent is the minimum-balance persistence policy: an account whose balance
// is below MinimumBalance for its size may be purged by the host.
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  float64 // Years of rent that must be prepaid
	BurnPercent         uint8
}

// DefaultRent mirrors the policy most ledgers of this family ship with.
var DefaultRent = Rent{
	LamportsPerByteYear: 3480,
	ExemptionThreshold:  2.0,
	BurnPercent:         50,
}

// MinimumBalance returns the balance an account of size bytes needs to be
// exempt. A policy whose minimum does not fit in a uint64 saturates at
// math.MaxUint64.
func (r Rent) MinimumBalance(size int) uint64 {
	perYear, ok := CheckedMul(uint64(AccountStorageOverhead+size), r.LamportsPerByteYear)
	if !ok {
		return math.MaxUint64
	}
	minimum := float64(perYear) * r.ExemptionThreshold
	if minimum >= float64(math.MaxUint64) {
		return math.MaxUint64
	}
	return uint64(minimum)
}

// IsExempt reports whether balance covers the minimum for size bytes.
func (r Rent) IsExempt(balance uint64, size int) bool {
	return balance >= r.MinimumBalance(size)
}

// SerializeRent encodes the rent policy as the rent sysvar payload.
func SerializeRent(r Rent) []byte {
	buf := make([]byte, RentSize)
	binary.LittleEndian.PutUint64(buf[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(buf[8:16], math.Float64bits(r.ExemptionThreshold))
	buf[16] = r.BurnPercent
	return buf
}

// DeserializeRent decodes the rent sysvar payload.
func DeserializeRent(data []byte) (Rent, error) {
	if len(data) != RentSize {
		return Rent{}, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidRentData, RentSize, len(data))
	}
	r := Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(data[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(data[8:16])),
		BurnPercent:         data[16],
	}
	if math.IsNaN(r.ExemptionThreshold) || r.ExemptionThreshold < 0 {
		return Rent{}, fmt.Errorf("%w: exemption threshold %v", ErrInvalidRentData, r.ExemptionThreshold)
	}
	return r, nil
}

// RentSysvar builds the read-only account that carries r.
func RentSysvar(r Rent) *Account {
	return &Account{ID: RentSysvarID, Owner: SystemProgramID, Data: SerializeRent(r)}
}
