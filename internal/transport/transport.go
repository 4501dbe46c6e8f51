// Package transport implements the all-to-all broadcast capability peers
// use to exchange protocol messages, in two interchangeable realizations:
// a typed in-memory channel and a byte-serialized channel exercising the
// wire codec.
package transport

import (
	"errors"
	"sync/atomic"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

// ErrClosedInbox is the fatal error a peer's Receive raises when its own
// inbox has been closed out from under it — in a well-formed run this
// never happens before the consumer stops pulling (spec.md §7).
var ErrClosedInbox = errors.New("transport: receive on closed inbox")

// inboxCapacity bounds each peer's mailbox. The correct protocol drains its
// inbox strictly faster than any single phase can fill it, so this is large
// enough to never backpressure a well-formed run; a full inbox is treated
// as a best-effort delivery failure (logged, swallowed) rather than a
// blocking send, per spec.md §5.
const inboxCapacity = 4096

// Transport is the capability a peer uses to communicate with every other
// peer, including itself.
type Transport interface {
	// PeerCount returns N, the total number of participants including self.
	PeerCount() int

	// Broadcast delivers msg to every peer's inbox, including the caller's
	// own. A send failure to any individual inbox is logged and swallowed.
	Broadcast(msg wire.Message)

	// SendToSelf delivers msg to the caller's own inbox only, used for
	// out-of-phase self-requeueing.
	SendToSelf(msg wire.Message)

	// Receive blocks until a message is available on the caller's own
	// inbox and returns it. Receiving from a closed inbox is fatal.
	Receive() wire.Message

	// Close closes the caller's own inbox. Intended for test teardown;
	// the protocol itself has no teardown discipline (spec.md §5).
	Close()
}

// closedFlags is shared across every handle produced by one factory call
// so that Broadcast can tell a peer's inbox has closed without racing the
// channel send/close itself.
type closedFlags []int32

func newClosedFlags(n int) closedFlags {
	return make(closedFlags, n)
}

func (f closedFlags) isClosed(i int) bool {
	return atomic.LoadInt32(&f[i]) != 0
}

func (f closedFlags) markClosed(i int) {
	atomic.StoreInt32(&f[i], 1)
}

func logSendFailure(log logging.Logger, self, dest int) {
	log.Warnf("peer %d: delivery to peer %d's inbox dropped (full or closed)", self, dest)
}
