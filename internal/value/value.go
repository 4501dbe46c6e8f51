// Package value defines the binary value and phase counter shared by every
// layer of the Ben-Or protocol implementation.
package value

import "fmt"

// Value is the binary proposal value a peer carries through the protocol.
type Value int

const (
	Zero Value = iota
	One
)

func (v Value) String() string {
	switch v {
	case Zero:
		return "0"
	case One:
		return "1"
	default:
		return fmt.Sprintf("Value(%d)", int(v))
	}
}

// Phase is a monotonically increasing, 0-origin round counter. The sequence
// generated by Phases is exactly 0, 1, 2, ... with no gaps or repeats.
type Phase uint64

// Next returns the successor phase.
func (p Phase) Next() Phase {
	return p + 1
}

// Phases returns an infinite, lazily-pulled phase generator starting at 0.
// Callers drain it with Next(), never assuming termination.
func Phases() *PhaseGenerator {
	return &PhaseGenerator{current: 0}
}

// PhaseGenerator is a pull-based iterator over the infinite phase sequence.
type PhaseGenerator struct {
	current Phase
}

// Next returns the next phase in the sequence and advances the generator.
func (g *PhaseGenerator) Next() Phase {
	p := g.current
	g.current++
	return p
}
