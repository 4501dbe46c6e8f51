package wire

import (
	"bytes"
	"testing"

	"github.com/jabolina/ben-or-consensus/internal/value"
)

func TestCodec_RoundTripsWellFormedMessages(t *testing.T) {
	messages := []Message{
		Report(56, value.Zero),
		Report(56, value.One),
		ProposalValue(256, value.One),
		ProposalValue(0, value.Zero),
		ProposalUndecided(56),
		ProposalUndecided(0),
	}

	for _, m := range messages {
		decoded, err := Decode(Encode(m))
		if err != nil {
			t.Fatalf("decode(encode(%v)) failed: %v", m, err)
		}
		if decoded != m {
			t.Errorf("round-trip mismatch: got %v, want %v", decoded, m)
		}
	}
}

func TestCodec_EncodesToTheSpecifiedBytes(t *testing.T) {
	// Scenario S4 from spec.md.
	got := Encode(ProposalUndecided(56))
	want := []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x38}
	if !bytes.Equal(got, want) {
		t.Errorf("Proposal undecided phase 56: got % x, want % x", got, want)
	}

	got = Encode(ProposalValue(256, value.One))
	want = []byte{0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Proposal decided phase 256 one: got % x, want % x", got, want)
	}

	got = Encode(Report(56, value.Zero))
	want = []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x38, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Report phase 56 zero: got % x, want % x", got, want)
	}
}

func TestCodec_RejectsMalformedFrames(t *testing.T) {
	cases := map[string][]byte{
		"empty":                  {},
		"too short":              {0x00, 0x01},
		"length 11":              make([]byte, 11),
		"unknown tag":            append([]byte{0x03}, make([]byte, 9)...),
		"proposal-decided tag at 9 bytes": append([]byte{0x01}, make([]byte, 8)...),
		"report tag at 9 bytes":  append([]byte{0x02}, make([]byte, 8)...),
	}

	for name, frame := range cases {
		if _, err := Decode(frame); err == nil {
			t.Errorf("%s: expected decode error, got none", name)
		}
	}
}

func TestCodec_RejectsInvalidValueByte(t *testing.T) {
	frame := Encode(Report(1, value.Zero))
	frame[9] = 0x02
	if _, err := Decode(frame); err == nil {
		t.Error("expected decode error for invalid value byte")
	}
}
