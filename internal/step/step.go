// Package step implements the per-phase transition function: Ben-Or's
// correct two-round algorithm plus the adversarial variants that stress it.
package step

import (
	"fmt"
	"math/rand"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/outcome"
	"github.com/jabolina/ben-or-consensus/internal/transport"
	"github.com/jabolina/ben-or-consensus/internal/value"
)

// Context is everything a step function needs beyond the phase and the
// peer's incoming value: its identity, its transport handle, its logger,
// and its own random source (never shared across peers).
type Context struct {
	ID        int
	Transport transport.Transport
	Log       logging.Logger
	Rand      *rand.Rand
}

// Fn is the signature every correct or adversarial step function shares:
// (context, phase, incoming value, f) -> Decision.
type Fn func(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision

// Behavior selects which Fn a peer runs each phase.
type Behavior int

const (
	Correct Behavior = iota
	Crashes
	SendsInvalidMessages
	StopsExecuting
	RandomlyAdversarial
)

func (b Behavior) String() string {
	switch b {
	case Correct:
		return "correct"
	case Crashes:
		return "crashes"
	case SendsInvalidMessages:
		return "sends_invalid_messages"
	case StopsExecuting:
		return "stops_executing"
	case RandomlyAdversarial:
		return "randomly_adversarial"
	default:
		return fmt.Sprintf("Behavior(%d)", int(b))
	}
}

// ParseBehavior parses the CLI-facing behavior strings from spec.md §6.
func ParseBehavior(s string) (Behavior, error) {
	switch s {
	case "correct":
		return Correct, nil
	case "crashes":
		return Crashes, nil
	case "sends_invalid_messages":
		return SendsInvalidMessages, nil
	case "stops_executing":
		return StopsExecuting, nil
	case "randomly_adversarial":
		return RandomlyAdversarial, nil
	default:
		return 0, fmt.Errorf("invalid behavior string %q", s)
	}
}

// StepFn resolves a Behavior to its Fn. RandomlyAdversarial picks, on every
// invocation, one of the three adversarial variants uniformly at random.
func (b Behavior) StepFn() Fn {
	switch b {
	case Correct:
		return correct
	case Crashes:
		return randomlyCrashes
	case SendsInvalidMessages:
		return randomlySendsInvalidMessages
	case StopsExecuting:
		return randomlyStopsExecuting
	case RandomlyAdversarial:
		return randomlyMixed
	default:
		panic(fmt.Sprintf("step: unknown behavior %d", b))
	}
}

var mixedVariants = [3]Fn{randomlyCrashes, randomlySendsInvalidMessages, randomlyStopsExecuting}

func randomlyMixed(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision {
	pick := mixedVariants[ctx.Rand.Intn(len(mixedVariants))]
	return pick(ctx, phase, incoming, numAdversaries)
}
