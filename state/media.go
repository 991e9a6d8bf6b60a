package state

import (
	"encoding/binary"
	"fmt"
)

// SerializeMedia encodes a Media record to its 112-byte layout.
func SerializeMedia(m *Media) []byte {
	buf := make([]byte, MediaSize)
	putMedia(m, buf)
	return buf
}

// PackMedia writes m into dst, which must be exactly MediaSize bytes.
// The previous contents of dst are never read: every field is overwritten.
func PackMedia(m *Media, dst []byte) error {
	if m == nil {
		return ErrNilRecord
	}
	if len(dst) != MediaSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidMediaData, MediaSize, len(dst))
	}
	putMedia(m, dst)
	return nil
}

// DeserializeMedia decodes a Media record from data.
func DeserializeMedia(data []byte) (*Media, error) {
	if len(data) != MediaSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidMediaData, MediaSize, len(data))
	}
	m := &Media{}
	copy(m.Author[:], data[0:32])
	m.PricePerMinute = binary.LittleEndian.Uint64(data[32:40])
	m.DistributorFee = binary.LittleEndian.Uint64(data[40:48])
	copy(m.ContentToken[:], data[48:80])
	copy(m.ContentTokenAccount[:], data[80:112])
	return m, nil
}

func putMedia(m *Media, buf []byte) {
	copy(buf[0:32], m.Author[:])
	binary.LittleEndian.PutUint64(buf[32:40], m.PricePerMinute)
	binary.LittleEndian.PutUint64(buf[40:48], m.DistributorFee)
	copy(buf[48:80], m.ContentToken[:])
	copy(buf[80:112], m.ContentTokenAccount[:])
}
