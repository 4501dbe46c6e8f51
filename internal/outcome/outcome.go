// Package outcome implements the lazy, phase-indexed outcome stream each
// peer folds its step function over.
package outcome

import (
	"fmt"

	"github.com/jabolina/ben-or-consensus/internal/value"
)

// Decision is a peer's local state at the end of a phase: either still
// undecided (Pending, carrying the value it will propose next) or
// committed (Done, carrying both the next-proposal value and the
// immutable decided value).
type Decision struct {
	Next    value.Value
	Done    bool
	Decided value.Value
}

// Pending builds an undecided Decision.
func Pending(next value.Value) Decision {
	return Decision{Next: next, Done: false}
}

// DecidedAs builds a Done Decision.
func DecidedAs(next, decided value.Value) Decision {
	return Decision{Next: next, Done: true, Decided: decided}
}

func (d Decision) String() string {
	if d.Done {
		return fmt.Sprintf("Done{next:%s, decided:%s}", d.Next, d.Decided)
	}
	return fmt.Sprintf("Pending{next:%s}", d.Next)
}

// Outcome is the (phase, decision) pair emitted for a single peer at a
// single phase.
type Outcome struct {
	Phase    value.Phase
	Decision Decision
}

func (o Outcome) String() string {
	if o.Decision.Done {
		return fmt.Sprintf("(Phase: %d, Next: %s, Decide: %s)", o.Phase, o.Decision.Next, o.Decision.Decided)
	}
	return fmt.Sprintf("(Phase: %d, Next: %s)", o.Phase, o.Decision.Next)
}

// StepFn is the per-phase transition a Stream folds over the phase
// sequence: given the phase and the peer's incoming value, it returns the
// peer's new Decision.
type StepFn func(phase value.Phase, incoming value.Value) Decision

// Stream is a pull-based iterator producing one Outcome per call to Next,
// in phase order, forever. It maintains the peer's current Decision and
// enforces the stickiness invariant (§3, property 3 of spec.md §8): once a
// peer reports Done{decided: v}, every subsequent Decision from the same
// step function must report the same v if it reports a decision at all.
type Stream struct {
	phases  *value.PhaseGenerator
	step    StepFn
	current Decision
}

// NewStream builds a Stream seeded with the peer's initial value and the
// step function it will fold over the infinite phase sequence.
func NewStream(init value.Value, step StepFn) *Stream {
	return &Stream{
		phases:  value.Phases(),
		step:    step,
		current: Pending(init),
	}
}

// Next advances the stream by one phase: it runs the step, stores its
// result as next phase's Decision, and then returns the Outcome for the
// current phase (the Decision as it stood BEFORE this phase's step ran).
// If the step panics, that Outcome is never returned.
//
// The step function is invoked with phase.Next() rather than phase: phase
// numbers are 1-origin at the protocol level while the outer stream is
// 0-origin (spec.md §4.3). Implementers must preserve this offset because
// decision stickiness is tied to it.
func (s *Stream) Next() Outcome {
	phase := s.phases.Next()
	emitted := s.current

	next := s.step(phase.Next(), s.current.Next)
	if s.current.Done && next.Done {
		if next.Decided != s.current.Decided {
			panic(fmt.Sprintf("stickiness violation: peer decided %s then %s", s.current.Decided, next.Decided))
		}
	}
	s.current = next

	return Outcome{Phase: phase, Decision: emitted}
}
