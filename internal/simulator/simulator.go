// Package simulator orchestrates a full run of the protocol: it
// instantiates N peers over a chosen transport, seeds their inputs,
// assigns adversarial behaviors, runs them concurrently, and merges their
// outcome streams into one consumer-facing stream.
package simulator

import (
	"fmt"
	"math/rand"

	"github.com/prometheus/common/log"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/process"
	"github.com/jabolina/ben-or-consensus/internal/step"
	"github.com/jabolina/ben-or-consensus/internal/transport"
	"github.com/jabolina/ben-or-consensus/internal/value"
)

// mergeBuffer bounds the merged outcome channel. Each peer blocks on send
// if the consumer falls behind, which is fine: the consumer is expected to
// keep draining, and this only throttles production, never breaks FIFO
// per producer.
const mergeBuffer = 256

// Simulate constructs N processes — the first numZeros seeded with Zero,
// the rest with One; the first numAdversaries running adversarialBehavior,
// the rest running step.Correct — and returns the channel they merge their
// (peer id, outcome) tuples onto.
//
// Preconditions (spec.md §6): numZeros must be in [0, N], numAdversaries
// must be in [0, N). Violating either is a fatal precondition failure.
func Simulate(numZeros, numAdversaries int, adversarialBehavior step.Behavior, transports []transport.Transport) <-chan process.Tuple {
	n := len(transports)
	if numZeros < 0 || numZeros > n {
		panic(fmt.Sprintf("simulator: num_zeros %d out of range [0, %d]", numZeros, n))
	}
	if numAdversaries < 0 || numAdversaries >= n {
		panic(fmt.Sprintf("simulator: num_adversaries %d out of range [0, %d)", numAdversaries, n))
	}

	out := make(chan process.Tuple, mergeBuffer)
	peerLog := logging.NewDefaultLogger("benor")

	log.Infof("spawning %d peers: num_zeros=%d num_adversaries=%d behavior=%s", n, numZeros, numAdversaries, adversarialBehavior.String())

	for i, t := range transports {
		init := value.One
		if i < numZeros {
			init = value.Zero
		}

		stepFn := step.Correct.StepFn()
		if i < numAdversaries {
			stepFn = adversarialBehavior.StepFn()
		}

		p := &process.Process{
			ID:        i,
			Transport: t,
			Init:      init,
			Step:      stepFn,
			F:         numAdversaries,
			Log:       peerLog,
			Rand:      rand.New(rand.NewSource(peerSeed(i))),
		}
		go p.Run(out)
	}

	log.Debugf("all %d peers spawned, merging onto one channel", n)

	return out
}

// peerSeed derives a per-peer random seed. Each peer owns its own RNG;
// callers that need determinism should construct their own seeded
// processes directly rather than through Simulate (spec.md §9).
func peerSeed(id int) int64 {
	return int64(id)*2654435761 + 1
}
