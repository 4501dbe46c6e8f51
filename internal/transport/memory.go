package transport

import (
	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

// MemoryTransport passes structured Message values directly between
// peers, with no serialization at the wire boundary.
type MemoryTransport struct {
	self    int
	inboxes []chan wire.Message
	closed  closedFlags
	log     logging.Logger
}

// NewMemoryTransport returns N handles wired into a full all-to-all
// topology: each handle owns a reference to every peer's inbox (for
// Broadcast) and reads from its own (for Receive/SendToSelf).
func NewMemoryTransport(n int, log logging.Logger) []Transport {
	inboxes := make([]chan wire.Message, n)
	for i := range inboxes {
		inboxes[i] = make(chan wire.Message, inboxCapacity)
	}
	flags := newClosedFlags(n)

	handles := make([]Transport, n)
	for i := 0; i < n; i++ {
		handles[i] = &MemoryTransport{
			self:    i,
			inboxes: inboxes,
			closed:  flags,
			log:     log,
		}
	}
	return handles
}

func (m *MemoryTransport) PeerCount() int {
	return len(m.inboxes)
}

func (m *MemoryTransport) Broadcast(msg wire.Message) {
	for i := range m.inboxes {
		m.deliver(i, msg)
	}
}

func (m *MemoryTransport) SendToSelf(msg wire.Message) {
	m.deliver(m.self, msg)
}

func (m *MemoryTransport) deliver(dest int, msg wire.Message) {
	if m.closed.isClosed(dest) {
		logSendFailure(m.log, m.self, dest)
		return
	}
	defer func() {
		// The inbox may close between the isClosed check above and this
		// send; a send racing a close panics rather than blocking, so it
		// is swallowed here the same as any other best-effort failure.
		if recover() != nil {
			logSendFailure(m.log, m.self, dest)
		}
	}()
	select {
	case m.inboxes[dest] <- msg:
	default:
		logSendFailure(m.log, m.self, dest)
	}
}

func (m *MemoryTransport) Receive() wire.Message {
	msg, ok := <-m.inboxes[m.self]
	if !ok {
		panic(ErrClosedInbox)
	}
	return msg
}

func (m *MemoryTransport) Close() {
	m.closed.markClosed(m.self)
	close(m.inboxes[m.self])
}
