package revshare

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalCost(t *testing.T) {
	total, err := TotalCost(5, 100)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), total)

	total, err = TotalCost(0, math.MaxUint64)
	require.NoError(t, err)
	assert.Zero(t, total)

	_, err = TotalCost(math.MaxUint64, 2)
	assert.ErrorIs(t, err, ErrAmountOverflow)
}

func TestSplitSale(t *testing.T) {
	tests := []struct {
		name        string
		total, fee  uint64
		distributor uint64
		author      uint64
	}{
		// 10/100 truncates to 0 before multiplying.
		{"ten percent truncates", 500, 10, 0, 500},
		{"ninety nine percent truncates", 500, 99, 0, 500},
		{"zero fee", 500, 0, 0, 500},
		{"full fee", 500, 100, 500, 0},
		{"zero total", 0, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := SplitSale(tt.total, tt.fee)
			require.NoError(t, err)
			assert.Equal(t, tt.total, s.Total)
			assert.Equal(t, tt.distributor, s.Distributor)
			assert.Equal(t, tt.author, s.Author)
			assert.NoError(t, ValidateConservation(s))
		})
	}
}

func TestSplitSale_FeeAboveHundred(t *testing.T) {
	_, err := SplitSale(500, 200)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	_, err = SplitSale(math.MaxUint64, 300)
	assert.ErrorIs(t, err, ErrAmountOverflow)

	// Zero total never overflows, whatever the fee.
	s, err := SplitSale(0, 500)
	require.NoError(t, err)
	assert.Zero(t, s.Author)
}

func TestValidateConservation(t *testing.T) {
	assert.NoError(t, ValidateConservation(Split{Total: 10, Distributor: 3, Author: 7}))
	assert.ErrorIs(t, ValidateConservation(Split{Total: 10, Distributor: 3, Author: 6}), ErrShareConservationViolation)
	assert.ErrorIs(t, ValidateConservation(Split{Total: 1, Distributor: math.MaxUint64, Author: 2}), ErrShareConservationViolation)
}
