package runtime

import (
	"encoding/binary"
	"fmt"
	"math"

	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	bsvhash "github.com/bsv-blockchain/go-sdk/primitives/hash"

	"github.com/bitfsorg/mediapay-go/ledger"
	"github.com/bitfsorg/mediapay-go/signer"
)

// EnvelopeVersion is the first byte of every encoded envelope.
const EnvelopeVersion byte = 1

const (
	flagWritable byte = 1 << 0

	maxAccounts   = math.MaxUint16
	maxSignatures = math.MaxUint8
)

// AccountMeta names an account an instruction touches.
type AccountMeta struct {
	ID       ledger.Identity
	Writable bool
}

// Writable returns a writable AccountMeta for id.
func Writable(id ledger.Identity) AccountMeta { return AccountMeta{ID: id, Writable: true} }

// Readonly returns a read-only AccountMeta for id.
func Readonly(id ledger.Identity) AccountMeta { return AccountMeta{ID: id} }

// Envelope is a signed instruction addressed to one program. The runtime
// executes a given message at most once; Nonce lets a signer repeat an
// otherwise identical instruction.
type Envelope struct {
	Program    ledger.Identity
	Nonce      uint64
	Accounts   []AccountMeta
	Data       []byte
	Signatures []signer.Signature
}

// Message returns the canonical bytes covered by the signatures:
//
//	[version:1][program:32][nonce:8][count:2][count x (id:32, flags:1)][data_len:4][data]
func (e *Envelope) Message() []byte {
	size := 1 + 32 + 8 + 2 + len(e.Accounts)*33 + 4 + len(e.Data)
	buf := make([]byte, 0, size)
	buf = append(buf, EnvelopeVersion)
	buf = append(buf, e.Program[:]...)
	buf = binary.BigEndian.AppendUint64(buf, e.Nonce)
	buf = binary.BigEndian.AppendUint16(buf, uint16(len(e.Accounts)))
	for _, m := range e.Accounts {
		buf = append(buf, m.ID[:]...)
		var flags byte
		if m.Writable {
			flags |= flagWritable
		}
		buf = append(buf, flags)
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(e.Data)))
	buf = append(buf, e.Data...)
	return buf
}

// ID returns SHA256d(Message). Signatures are not covered, so re-signing a
// message does not change its ID.
func (e *Envelope) ID() ledger.Identity {
	var id ledger.Identity
	copy(id[:], bsvhash.Sha256d(e.Message()))
	return id
}

// Sign appends a signature over Message for each key.
func (e *Envelope) Sign(keys ...*ec.PrivateKey) error {
	if len(e.Accounts) > maxAccounts {
		return ErrTooManyAccounts
	}
	msg := e.Message()
	for _, key := range keys {
		sig, err := signer.Sign(key, msg)
		if err != nil {
			return err
		}
		e.Signatures = append(e.Signatures, sig)
	}
	return nil
}

// Encode serializes the envelope: the message followed by
// [sig_count:1][sig_count x (pubkey:33, sig_len:1, sig)].
func (e *Envelope) Encode() ([]byte, error) {
	if len(e.Accounts) > maxAccounts {
		return nil, ErrTooManyAccounts
	}
	if len(e.Signatures) > maxSignatures {
		return nil, fmt.Errorf("%w: %d signatures", ErrInvalidEnvelope, len(e.Signatures))
	}
	buf := e.Message()
	buf = append(buf, byte(len(e.Signatures)))
	for i, s := range e.Signatures {
		if len(s.PubKey) != signer.CompressedPubKeyLen || len(s.Sig) > math.MaxUint8 {
			return nil, fmt.Errorf("%w: malformed signature %d", ErrInvalidEnvelope, i)
		}
		buf = append(buf, s.PubKey...)
		buf = append(buf, byte(len(s.Sig)))
		buf = append(buf, s.Sig...)
	}
	return buf, nil
}

// DecodeEnvelope parses bytes produced by Encode.
func DecodeEnvelope(data []byte) (*Envelope, error) {
	r := &reader{buf: data}

	version, err := r.readByte()
	if err != nil {
		return nil, err
	}
	if version != EnvelopeVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrInvalidEnvelope, version)
	}

	e := &Envelope{}
	program, err := r.next(32)
	if err != nil {
		return nil, err
	}
	copy(e.Program[:], program)

	if e.Nonce, err = r.readUint64(); err != nil {
		return nil, err
	}

	count, err := r.readUint16()
	if err != nil {
		return nil, err
	}
	e.Accounts = make([]AccountMeta, 0, count)
	for i := 0; i < int(count); i++ {
		id, err := r.next(32)
		if err != nil {
			return nil, err
		}
		flags, err := r.readByte()
		if err != nil {
			return nil, err
		}
		var m AccountMeta
		copy(m.ID[:], id)
		m.Writable = flags&flagWritable != 0
		e.Accounts = append(e.Accounts, m)
	}

	dataLen, err := r.readUint32()
	if err != nil {
		return nil, err
	}
	payload, err := r.next(int(dataLen))
	if err != nil {
		return nil, err
	}
	e.Data = append([]byte(nil), payload...)

	sigCount, err := r.readByte()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(sigCount); i++ {
		pub, err := r.next(signer.CompressedPubKeyLen)
		if err != nil {
			return nil, err
		}
		sigLen, err := r.readByte()
		if err != nil {
			return nil, err
		}
		sig, err := r.next(int(sigLen))
		if err != nil {
			return nil, err
		}
		e.Signatures = append(e.Signatures, signer.Signature{
			PubKey: append([]byte(nil), pub...),
			Sig:    append([]byte(nil), sig...),
		})
	}

	if r.pos != len(data) {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidEnvelope, len(data)-r.pos)
	}
	return e, nil
}

type reader struct {
	buf []byte
	pos int
}

func (r *reader) next(n int) ([]byte, error) {
	if n < 0 || len(r.buf)-r.pos < n {
		return nil, fmt.Errorf("%w: truncated at offset %d", ErrInvalidEnvelope, r.pos)
	}
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

func (r *reader) readByte() (byte, error) {
	b, err := r.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *reader) readUint16() (uint16, error) {
	b, err := r.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (r *reader) readUint32() (uint32, error) {
	b, err := r.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (r *reader) readUint64() (uint64, error) {
	b, err := r.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}
