// Package instruction encodes and decodes the wire format of media access
// instructions.
//
// Wire format: tag(1) followed by little-endian u64 operands.
//
//	0 CreateMedia         price_per_minute(8) distributor_fee(8)
//	1 PurchaseAccessTime  time_in_minute(8)
//	2 UpdateAccessTime    access_time(8)
package instruction

import (
	"encoding/binary"
	"fmt"
)

// Tag selects the instruction variant.
type Tag uint8

const (
	TagCreateMedia        Tag = 0
	TagPurchaseAccessTime Tag = 1
	TagUpdateAccessTime   Tag = 2
)

const operandSize = 8

// String returns the instruction name used in logs and metrics.
func (t Tag) String() string {
	switch t {
	case TagCreateMedia:
		return "CreateMedia"
	case TagPurchaseAccessTime:
		return "PurchaseAccessTime"
	case TagUpdateAccessTime:
		return "UpdateAccessTime"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(t))
	}
}

// Instruction is one of CreateMedia, PurchaseAccessTime or UpdateAccessTime.
type Instruction interface {
	Tag() Tag
	operands() []uint64
}

// CreateMedia registers a piece of content with its price and distributor fee.
//
// Accounts:
//
//  0. [signer]   author
//  1. []         content token account, owned by the token program
//  2. [writable] media storage account
//  3. []         rent sysvar
//  4. []         content token program
type CreateMedia struct {
	PricePerMinute uint64 // Token base units per minute
	DistributorFee uint64 // Percentage (0-100) of each sale given to the distributor
}

// PurchaseAccessTime buys a block of minutes for the buyer.
//
// Accounts:
//
//  0. [signer]   payer
//  1. [signer]   buyer
//  2. [writable] access time storage account
//  3. []         media storage account
//  4. [writable] author token account
//  5. [writable] distributor token account
//  6. [writable] buyer token account
//  7. []         rent sysvar
//  8. []         token program
type PurchaseAccessTime struct {
	TimeInMinute uint64
}

// UpdateAccessTime reports cumulative minutes spent.
//
// Accounts:
//
//  0. [signer, writable] payer
//  1. [writable]         access time storage account
//  2. []                 rent sysvar
type UpdateAccessTime struct {
	AccessTime uint64
}

func (CreateMedia) Tag() Tag        { return TagCreateMedia }
func (PurchaseAccessTime) Tag() Tag { return TagPurchaseAccessTime }
func (UpdateAccessTime) Tag() Tag   { return TagUpdateAccessTime }

func (c CreateMedia) operands() []uint64        { return []uint64{c.PricePerMinute, c.DistributorFee} }
func (p PurchaseAccessTime) operands() []uint64 { return []uint64{p.TimeInMinute} }
func (u UpdateAccessTime) operands() []uint64   { return []uint64{u.AccessTime} }

// Decode parses an instruction buffer. Bytes past the last operand are ignored.
func Decode(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrInvalidInstruction)
	}
	tag, rest := Tag(data[0]), data[1:]

	switch tag {
	case TagCreateMedia:
		price, err := readOperand(rest, 0)
		if err != nil {
			return nil, err
		}
		fee, err := readOperand(rest, 1)
		if err != nil {
			return nil, err
		}
		return CreateMedia{PricePerMinute: price, DistributorFee: fee}, nil
	case TagPurchaseAccessTime:
		minutes, err := readOperand(rest, 0)
		if err != nil {
			return nil, err
		}
		return PurchaseAccessTime{TimeInMinute: minutes}, nil
	case TagUpdateAccessTime:
		spent, err := readOperand(rest, 0)
		if err != nil {
			return nil, err
		}
		return UpdateAccessTime{AccessTime: spent}, nil
	default:
		return nil, fmt.Errorf("%w: unknown tag %d", ErrInvalidInstruction, uint8(tag))
	}
}

// Encode builds the wire form of ix.
func Encode(ix Instruction) ([]byte, error) {
	if ix == nil {
		return nil, fmt.Errorf("%w: nil instruction", ErrInvalidInstruction)
	}
	ops := ix.operands()
	buf := make([]byte, 1+operandSize*len(ops))
	buf[0] = byte(ix.Tag())
	for i, v := range ops {
		binary.LittleEndian.PutUint64(buf[1+i*operandSize:], v)
	}
	return buf, nil
}

// readOperand reads the u64 at operand position pos (0 → rest[0:8], 1 → rest[8:16]).
func readOperand(rest []byte, pos int) (uint64, error) {
	start := pos * operandSize
	if len(rest) < start+operandSize {
		return 0, fmt.Errorf("%w: operand %d needs %d bytes, have %d",
			ErrInvalidInstruction, pos, start+operandSize, len(rest))
	}
	return binary.LittleEndian.Uint64(rest[start : start+operandSize]), nil
}
