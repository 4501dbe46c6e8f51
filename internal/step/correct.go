package step

import (
	"github.com/jabolina/ben-or-consensus/internal/metrics"
	"github.com/jabolina/ben-or-consensus/internal/outcome"
	"github.com/jabolina/ben-or-consensus/internal/value"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

// correct implements Ben-Or's two-round algorithm: a Report round that
// establishes a strict majority (if any), and a Proposal round that
// decides the majority definite value once more than f definite (non-"?")
// Proposals are accepted. See spec.md §4.4.
func correct(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision {
	n := ctx.Transport.PeerCount()
	if n <= numAdversaries {
		panic("step: correct requires num_processes > num_adversaries")
	}
	peerLabel := metrics.PeerLabel(ctx.ID)
	metrics.PhasesExecuted.WithLabelValues(peerLabel).Inc()

	need := n - numAdversaries

	// Round 1 — Report.
	ctx.Log.Debugf("peer %d: send Report{phase:%d, value:%s} to all processes", ctx.ID, phase, incoming)
	ctx.Transport.Broadcast(wire.Report(phase, incoming))

	ctx.Log.Debugf("peer %d: wait for %d Reports at phase %d", ctx.ID, need, phase)
	ones, zeros := readReports(ctx, phase, need)

	majorityValue, majorityCount := majority(ones, zeros)
	if majorityCount > n/2 {
		ctx.Log.Debugf("peer %d: Report majority %s (%d > %d), proposing it", ctx.ID, majorityValue, majorityCount, n/2)
		ctx.Transport.Broadcast(wire.ProposalValue(phase, majorityValue))
	} else {
		ctx.Log.Debugf("peer %d: no Report majority, proposing ?", ctx.ID)
		ctx.Transport.Broadcast(wire.ProposalUndecided(phase))
	}

	// Round 2 — Proposal.
	ctx.Log.Debugf("peer %d: wait for %d Proposals at phase %d", ctx.ID, need, phase)
	pOnes, pZeros := readProposals(ctx, phase, need)

	definite := pOnes + pZeros
	potential, _ := majority(pOnes, pZeros)

	var next value.Value
	if definite > 0 {
		ctx.Log.Debugf("peer %d: at least one definite Proposal accepted, next <- %s", ctx.ID, potential)
		next = potential
	} else if ctx.Rand.Intn(2) == 1 {
		ctx.Log.Debugf("peer %d: no definite Proposal accepted, next <- 1 (coin)", ctx.ID)
		next = value.One
	} else {
		ctx.Log.Debugf("peer %d: no definite Proposal accepted, next <- 0 (coin)", ctx.ID)
		next = value.Zero
	}

	if definite > numAdversaries {
		ctx.Log.Debugf("peer %d: decide(%s)", ctx.ID, potential)
		metrics.Decided.WithLabelValues(peerLabel).Set(1)
		return outcome.DecidedAs(next, potential)
	}
	metrics.Decided.WithLabelValues(peerLabel).Set(0)
	return outcome.Pending(next)
}

// majority returns which of {One, Zero} has the higher count and that
// count. Exact ties favor Zero — the documented tie rule from spec.md §8
// property 6 and original_source/src/step.rs; correctness never depends
// on it, since round 1's strict >N/2 threshold excludes ties from ever
// crossing it.
func majority(ones, zeros int) (value.Value, int) {
	if ones > zeros {
		return value.One, ones
	}
	return value.Zero, zeros
}

// readReports drains the transport until `need` phase-matched Reports have
// been accepted, requeueing any forward-phase Proposal it sees along the
// way and dropping everything else (spec.md §4.4 step 2).
func readReports(ctx *Context, phase value.Phase, need int) (ones, zeros int) {
	accepted := 0
	for accepted < need {
		msg := ctx.Transport.Receive()
		switch msg.Kind {
		case wire.KindReport:
			if msg.Phase != phase {
				ctx.Log.Debugf("peer %d: dropped stale/foreign Report %v", ctx.ID, msg)
				continue
			}
			accepted++
			if msg.Value == value.One {
				ones++
			} else {
				zeros++
			}
		case wire.KindProposal:
			if msg.Phase >= phase {
				ctx.Log.Debugf("peer %d: requeueing forward Proposal %v", ctx.ID, msg)
				ctx.Transport.SendToSelf(msg)
			} else {
				ctx.Log.Debugf("peer %d: dropped stale Proposal %v", ctx.ID, msg)
			}
		}
	}
	return ones, zeros
}

// readProposals drains the transport until `need` phase-matched Proposals
// have been accepted, requeueing any forward-phase Report it sees along
// the way and dropping everything else (spec.md §4.4 step 5). A "?"
// ballot counts toward `need` but contributes to neither tally.
func readProposals(ctx *Context, phase value.Phase, need int) (ones, zeros int) {
	accepted := 0
	for accepted < need {
		msg := ctx.Transport.Receive()
		switch msg.Kind {
		case wire.KindProposal:
			if msg.Phase != phase {
				ctx.Log.Debugf("peer %d: dropped stale/foreign Proposal %v", ctx.ID, msg)
				continue
			}
			accepted++
			if !msg.HasValue {
				continue
			}
			if msg.Value == value.One {
				ones++
			} else {
				zeros++
			}
		case wire.KindReport:
			if msg.Phase > phase {
				ctx.Log.Debugf("peer %d: requeueing forward Report %v", ctx.ID, msg)
				ctx.Transport.SendToSelf(msg)
			} else {
				ctx.Log.Debugf("peer %d: dropped stale Report %v", ctx.ID, msg)
			}
		}
	}
	return ones, zeros
}
