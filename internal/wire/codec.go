package wire

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/jabolina/ben-or-consensus/internal/value"
)

// ErrMalformedFrame is returned by Decode for any byte string that does not
// satisfy the bit-exact frame layout.
var ErrMalformedFrame = errors.New("malformed frame")

const (
	tagProposalUndecided = 0x00
	tagProposalDecided   = 0x01
	tagReport            = 0x02
)

// Encode turns a Message into its wire frame.
//
// Layout (all bit-exact, big-endian phase):
//
//	Proposal, undecided: 9 bytes  — [0x00][phase:8]
//	Proposal, decided:   10 bytes — [0x01][phase:8][value:1]
//	Report:              10 bytes — [0x02][phase:8][value:1]
func Encode(m Message) []byte {
	switch m.Kind {
	case KindProposal:
		if !m.HasValue {
			buf := make([]byte, 9)
			buf[0] = tagProposalUndecided
			binary.BigEndian.PutUint64(buf[1:], uint64(m.Phase))
			return buf
		}
		buf := make([]byte, 10)
		buf[0] = tagProposalDecided
		binary.BigEndian.PutUint64(buf[1:9], uint64(m.Phase))
		buf[9] = byte(m.Value)
		return buf
	case KindReport:
		buf := make([]byte, 10)
		buf[0] = tagReport
		binary.BigEndian.PutUint64(buf[1:9], uint64(m.Phase))
		buf[9] = byte(m.Value)
		return buf
	default:
		panic(fmt.Sprintf("wire: unknown message kind %d", m.Kind))
	}
}

// Decode parses a wire frame back into a Message. It fails with
// ErrMalformedFrame on any length, tag, or value-byte violation.
func Decode(b []byte) (Message, error) {
	if len(b) != 9 && len(b) != 10 {
		return Message{}, fmt.Errorf("%w: length %d", ErrMalformedFrame, len(b))
	}

	tag := b[0]
	phase := value.Phase(binary.BigEndian.Uint64(b[1:9]))

	switch tag {
	case tagProposalUndecided:
		if len(b) != 9 {
			return Message{}, fmt.Errorf("%w: proposal-undecided must be 9 bytes, got %d", ErrMalformedFrame, len(b))
		}
		return ProposalUndecided(phase), nil
	case tagProposalDecided:
		if len(b) != 10 {
			return Message{}, fmt.Errorf("%w: proposal-decided must be 10 bytes, got %d", ErrMalformedFrame, len(b))
		}
		v, err := decodeValueByte(b[9])
		if err != nil {
			return Message{}, err
		}
		return ProposalValue(phase, v), nil
	case tagReport:
		if len(b) != 10 {
			return Message{}, fmt.Errorf("%w: report must be 10 bytes, got %d", ErrMalformedFrame, len(b))
		}
		v, err := decodeValueByte(b[9])
		if err != nil {
			return Message{}, err
		}
		return Report(phase, v), nil
	default:
		return Message{}, fmt.Errorf("%w: unknown tag 0x%02x", ErrMalformedFrame, tag)
	}
}

func decodeValueByte(b byte) (value.Value, error) {
	switch b {
	case 0x00:
		return value.Zero, nil
	case 0x01:
		return value.One, nil
	default:
		return 0, fmt.Errorf("%w: value byte 0x%02x", ErrMalformedFrame, b)
	}
}
