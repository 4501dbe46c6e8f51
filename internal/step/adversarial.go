package step

import (
	"github.com/jabolina/ben-or-consensus/internal/metrics"
	"github.com/jabolina/ben-or-consensus/internal/outcome"
	"github.com/jabolina/ben-or-consensus/internal/value"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

// randomlyCrashes aborts the peer with probability 1/(k+2) at phase k —
// crash probability decreases as the run progresses, so later phases are
// more likely to make progress. Otherwise runs correct. Grounded on
// original_source/src/step.rs's randomly_crashes.
func randomlyCrashes(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision {
	if ctx.Rand.Intn(int(phase)+2) == 0 {
		metrics.AdversarialActions.WithLabelValues(metrics.PeerLabel(ctx.ID), "crash").Inc()
		ctx.Log.Warnf("peer %d: crashing at phase %d", ctx.ID, phase)
		panic("adversarial crash")
	}
	return correct(ctx, phase, incoming, numAdversaries)
}

// randomlySendsInvalidMessages, with probability 1/2, broadcasts exactly
// one protocol-valid but semantically arbitrary message and emits
// Pending{next: incoming} without running the rest of the phase.
// Otherwise runs correct. "Invalid" here means behaviorally deviant, not
// malformed at the wire level (spec.md §4.5).
func randomlySendsInvalidMessages(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision {
	if ctx.Rand.Intn(2) == 0 {
		return correct(ctx, phase, incoming, numAdversaries)
	}

	var msg wire.Message
	if ctx.Rand.Intn(2) == 0 {
		if ctx.Rand.Intn(2) == 0 {
			msg = wire.ProposalValue(phase, incoming)
		} else {
			msg = wire.ProposalUndecided(phase)
		}
	} else {
		msg = wire.Report(phase, incoming)
	}

	metrics.AdversarialActions.WithLabelValues(metrics.PeerLabel(ctx.ID), "garbage_send").Inc()
	ctx.Log.Warnf("peer %d: sending arbitrary message %v at phase %d", ctx.ID, msg, phase)
	ctx.Transport.Broadcast(msg)
	return outcome.Pending(incoming)
}

// randomlyStopsExecuting, with probability 1/2, skips the phase entirely
// and emits Pending{next: incoming}. Otherwise runs correct.
func randomlyStopsExecuting(ctx *Context, phase value.Phase, incoming value.Value, numAdversaries int) outcome.Decision {
	if ctx.Rand.Intn(2) == 0 {
		return correct(ctx, phase, incoming, numAdversaries)
	}

	metrics.AdversarialActions.WithLabelValues(metrics.PeerLabel(ctx.ID), "stall").Inc()
	ctx.Log.Warnf("peer %d: stalling at phase %d", ctx.ID, phase)
	return outcome.Pending(incoming)
}
