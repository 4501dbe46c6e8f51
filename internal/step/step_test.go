package step

import (
	"math/rand"
	"testing"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/outcome"
	"github.com/jabolina/ben-or-consensus/internal/transport"
	"github.com/jabolina/ben-or-consensus/internal/value"
)

func newContexts(n int) []*Context {
	log := logging.NewDefaultLogger("test")
	handles := transport.NewMemoryTransport(n, log)
	ctxs := make([]*Context, n)
	for i, h := range handles {
		ctxs[i] = &Context{
			ID:        i,
			Transport: h,
			Log:       log,
			Rand:      rand.New(rand.NewSource(int64(i) + 1)),
		}
	}
	return ctxs
}

// TestCorrect_UnanimousZerosDecideAtPhaseOne is scenario S1 from spec.md §8:
// N=3, all peers start at Zero, correct behavior, decide Zero at phase 1.
func TestCorrect_UnanimousZerosDecideAtPhaseOne(t *testing.T) {
	ctxs := newContexts(3)

	done := make(chan outcome.Decision, 3)
	for _, ctx := range ctxs {
		go func(c *Context) {
			done <- correct(c, 1, value.Zero, 0)
		}(ctx)
	}

	for i := 0; i < 3; i++ {
		d := <-done
		if !d.Done || d.Decided != value.Zero {
			t.Fatalf("expected Done{decided: Zero}, got %v", d)
		}
	}
}

// TestMajority_TiesFavorZero documents the deterministic tie rule required
// by spec.md §8 property 6.
func TestMajority_TiesFavorZero(t *testing.T) {
	v, count := majority(2, 2)
	if v != value.Zero || count != 2 {
		t.Fatalf("expected tie to favor Zero with count 2, got %v/%d", v, count)
	}
}

func TestMajority_PicksHigherCount(t *testing.T) {
	if v, c := majority(3, 1); v != value.One || c != 3 {
		t.Fatalf("expected One/3, got %v/%d", v, c)
	}
	if v, c := majority(1, 3); v != value.Zero || c != 3 {
		t.Fatalf("expected Zero/3, got %v/%d", v, c)
	}
}

func TestParseBehavior_RoundTripsStrings(t *testing.T) {
	behaviors := []Behavior{Correct, Crashes, SendsInvalidMessages, StopsExecuting, RandomlyAdversarial}
	for _, b := range behaviors {
		parsed, err := ParseBehavior(b.String())
		if err != nil {
			t.Fatalf("ParseBehavior(%q) failed: %v", b.String(), err)
		}
		if parsed != b {
			t.Errorf("ParseBehavior(%q) = %v, want %v", b.String(), parsed, b)
		}
	}
}

func TestParseBehavior_RejectsUnknownString(t *testing.T) {
	if _, err := ParseBehavior("not-a-behavior"); err == nil {
		t.Fatal("expected error for unknown behavior string")
	}
}
