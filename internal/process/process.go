// Package process binds a peer identity, a transport handle, an initial
// value and a step function together into a running outcome producer.
package process

import (
	"math/rand"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/outcome"
	"github.com/jabolina/ben-or-consensus/internal/step"
	"github.com/jabolina/ben-or-consensus/internal/transport"
	"github.com/jabolina/ben-or-consensus/internal/value"
)

// Tuple is one (peer id, outcome) pair emitted onto the merged stream.
type Tuple struct {
	ID      int
	Outcome outcome.Outcome
}

// Process is a single peer: its identity, its transport handle, its
// initial value, and the step function (correct or adversarial) it runs
// every phase against the shared adversary bound F.
type Process struct {
	ID        int
	Transport transport.Transport
	Init      value.Value
	Step      step.Fn
	F         int
	Log       logging.Logger
	Rand      *rand.Rand
}

// Run drives the process's outcome stream forever, forwarding every
// emitted Tuple onto out. It recovers from a panicking phase (adversarial
// crash, stickiness violation, malformed frame) and simply stops
// producing — matching spec.md §5/§7: a terminated peer is not reported
// as an explicit error, the merged stream just receives fewer tuples from
// it per unit of wall time.
func (p *Process) Run(out chan<- Tuple) {
	defer func() {
		if r := recover(); r != nil {
			p.Log.Warnf("peer %d: terminated (%v)", p.ID, r)
		}
	}()

	ctx := &step.Context{
		ID:        p.ID,
		Transport: p.Transport,
		Log:       p.Log,
		Rand:      p.Rand,
	}
	stream := outcome.NewStream(p.Init, func(phase value.Phase, incoming value.Value) outcome.Decision {
		return p.Step(ctx, phase, incoming, p.F)
	})

	for {
		out <- Tuple{ID: p.ID, Outcome: stream.Next()}
	}
}
