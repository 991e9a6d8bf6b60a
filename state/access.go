package state

import (
	"encoding/binary"
	"fmt"
)

// SerializeAccessTime encodes an AccessTime record to its 48-byte layout.
func SerializeAccessTime(a *AccessTime) []byte {
	buf := make([]byte, AccessTimeSize)
	putAccessTime(a, buf)
	return buf
}

// PackAccessTime writes a into dst, which must be exactly AccessTimeSize bytes.
// Like PackMedia it is a blind write and ignores whatever dst held before.
func PackAccessTime(a *AccessTime, dst []byte) error {
	if a == nil {
		return ErrNilRecord
	}
	if len(dst) != AccessTimeSize {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccessTimeData, AccessTimeSize, len(dst))
	}
	putAccessTime(a, dst)
	return nil
}

// DeserializeAccessTime decodes an AccessTime record from data.
func DeserializeAccessTime(data []byte) (*AccessTime, error) {
	if len(data) != AccessTimeSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccessTimeData, AccessTimeSize, len(data))
	}
	a := &AccessTime{}
	copy(a.Owner[:], data[0:32])
	a.TotalTime = binary.LittleEndian.Uint64(data[32:40])
	a.TimeSpent = binary.LittleEndian.Uint64(data[40:48])
	return a, nil
}

func putAccessTime(a *AccessTime, buf []byte) {
	copy(buf[0:32], a.Owner[:])
	binary.LittleEndian.PutUint64(buf[32:40], a.TotalTime)
	binary.LittleEndian.PutUint64(buf[40:48], a.TimeSpent)
}
