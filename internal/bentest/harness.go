// Package bentest provides small test-harness helpers shared across this
// module's test files: timeout-bounded waits, stack-trace dumps, and
// goroutine-leak-free transport teardown.
package bentest

import (
	"math/rand"
	"runtime"
	"testing"
	"time"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/process"
	"github.com/jabolina/ben-or-consensus/internal/step"
	"github.com/jabolina/ben-or-consensus/internal/transport"
	"github.com/jabolina/ben-or-consensus/internal/value"
)

func randFor(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Logger returns a debug-silenced logger suitable for tests.
func Logger() logging.Logger {
	l := logging.NewDefaultLogger("bentest")
	l.ToggleDebug(false)
	return l
}

// WaitThisOrTimeout runs cb in a goroutine and reports whether it
// completed before duration elapsed.
func WaitThisOrTimeout(cb func(), duration time.Duration) bool {
	done := make(chan struct{})
	go func() {
		cb()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(duration):
		return false
	}
}

// PrintStackTrace dumps every goroutine's stack to the test log, used
// when a harness teardown hangs past its timeout.
func PrintStackTrace(t *testing.T) {
	buf := make([]byte, 1<<16)
	n := runtime.Stack(buf, true)
	t.Errorf("%s", buf[:n])
}

// CloseAll closes every transport handle in transports, the harness's
// teardown discipline (the protocol itself has none, per spec.md §5).
func CloseAll(transports []transport.Transport) {
	for _, t := range transports {
		t.Close()
	}
}

// ShutdownAndDrain closes every transport while continuously draining out,
// giving every still-running peer goroutine a chance to make one more
// Receive call (which now panics on its closed inbox and is recovered by
// process.Process.Run) before the drain stops. Tests that want a
// goleak-clean teardown after observing decisions call this instead of
// CloseAll alone: the protocol has no termination signal of its own
// (spec.md §5), so driving peers to their closed-inbox panic is the only
// way to stop them deterministically.
func ShutdownAndDrain(transports []transport.Transport, out <-chan process.Tuple, grace time.Duration) {
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-out:
			case <-stop:
				return
			}
		}
	}()
	CloseAll(transports)
	time.Sleep(grace)
	close(stop)
}

// RunAll spawns one goroutine per (transport, init, stepFn) triple and
// returns the merged (peer id, outcome) channel, mirroring
// internal/simulator.Simulate but letting tests assign arbitrary per-peer
// behaviors and seeds instead of the first-num_adversaries convention.
func RunAll(transports []transport.Transport, inits []value.Value, steps []step.Fn, f int, seeds []int64) <-chan process.Tuple {
	out := make(chan process.Tuple, 256)
	log := Logger()
	for i, tr := range transports {
		p := &process.Process{
			ID:        i,
			Transport: tr,
			Init:      inits[i],
			Step:      steps[i],
			F:         f,
			Log:       log,
			Rand:      randFor(seeds[i]),
		}
		go p.Run(out)
	}
	return out
}
