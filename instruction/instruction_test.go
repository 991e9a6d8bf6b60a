package instruction

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func le(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Instruction
	}{
		{
			name: "create media",
			data: append(append([]byte{0}, le(100)...), le(10)...),
			want: CreateMedia{PricePerMinute: 100, DistributorFee: 10},
		},
		{
			name: "purchase access time",
			data: append([]byte{1}, le(5)...),
			want: PurchaseAccessTime{TimeInMinute: 5},
		},
		{
			name: "update access time",
			data: append([]byte{2}, le(math.MaxUint64)...),
			want: UpdateAccessTime{AccessTime: math.MaxUint64},
		},
		{
			name: "trailing bytes ignored",
			data: append(append([]byte{1}, le(7)...), 0xFF, 0xFF),
			want: PurchaseAccessTime{TimeInMinute: 7},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecode_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"unknown tag", append([]byte{3}, le(1)...)},
		{"create media missing fee", append([]byte{0}, le(100)...)},
		{"create media short price", []byte{0, 1, 2, 3}},
		{"purchase no operand", []byte{1}},
		{"update short operand", []byte{2, 1, 2, 3, 4, 5, 6, 7}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			assert.ErrorIs(t, err, ErrInvalidInstruction)
		})
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	for _, ix := range []Instruction{
		CreateMedia{PricePerMinute: 250, DistributorFee: 100},
		PurchaseAccessTime{TimeInMinute: 90},
		UpdateAccessTime{AccessTime: 45},
	} {
		data, err := Encode(ix)
		require.NoError(t, err)
		assert.Equal(t, byte(ix.Tag()), data[0])

		decoded, err := Decode(data)
		require.NoError(t, err)
		assert.Equal(t, ix, decoded)
	}
}

func TestEncode_Sizes(t *testing.T) {
	data, err := Encode(CreateMedia{})
	require.NoError(t, err)
	assert.Len(t, data, 17)

	data, err = Encode(UpdateAccessTime{})
	require.NoError(t, err)
	assert.Len(t, data, 9)

	_, err = Encode(nil)
	assert.ErrorIs(t, err, ErrInvalidInstruction)
}

func TestTagString(t *testing.T) {
	assert.Equal(t, "CreateMedia", TagCreateMedia.String())
	assert.Equal(t, "PurchaseAccessTime", TagPurchaseAccessTime.String())
	assert.Equal(t, "UpdateAccessTime", TagUpdateAccessTime.String())
	assert.Equal(t, "Unknown(9)", Tag(9).String())
}
