package transport

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

// ProtocolVersion is the byte-transport wire protocol version this build
// speaks, checked against supportedVersions whenever a caller negotiates a
// peer's version via NewByteTransportVersioned.
const ProtocolVersion = "1.0.0"

var supportedVersions = mustConstraint(">= 1.0, < 2.0")

func mustConstraint(c string) version.Constraints {
	constraints, err := version.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraints
}

// ErrUnsupportedProtocol is returned when a peer advertises a version
// outside supportedVersions.
var ErrUnsupportedProtocol = errors.New("transport: unsupported protocol version")

// ByteTransport exchanges wire.Message values as their encoded byte
// frames, exercising the codec on every send and receive.
type ByteTransport struct {
	self    int
	inboxes []chan []byte
	closed  closedFlags
	log     logging.Logger
}

// NewByteTransport returns N handles wired into a full all-to-all
// topology, identical to NewMemoryTransport except the in-flight
// representation is the encoded byte frame rather than the Message value.
// It checks ProtocolVersion against supportedVersions; use
// NewByteTransportVersioned to check a different version. The handles
// themselves carry no version.
func NewByteTransport(n int, log logging.Logger) []Transport {
	handles, err := NewByteTransportVersioned(n, log, ProtocolVersion)
	if err != nil {
		panic(err)
	}
	return handles
}

// NewByteTransportVersioned is NewByteTransport with an explicit peer
// version, checked against supportedVersions before any handle is built.
// A deployment mixing incompatible builds fails here rather than producing
// frames a peer on a different protocol version can't interpret.
func NewByteTransportVersioned(n int, log logging.Logger, peerVersion string) ([]Transport, error) {
	v, err := version.NewVersion(peerVersion)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid protocol version %q: %w", peerVersion, err)
	}
	if !supportedVersions.Check(v) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, peerVersion)
	}

	inboxes := make([]chan []byte, n)
	for i := range inboxes {
		inboxes[i] = make(chan []byte, inboxCapacity)
	}
	flags := newClosedFlags(n)

	handles := make([]Transport, n)
	for i := 0; i < n; i++ {
		handles[i] = &ByteTransport{
			self:    i,
			inboxes: inboxes,
			closed:  flags,
			log:     log,
		}
	}
	return handles, nil
}

func (b *ByteTransport) PeerCount() int {
	return len(b.inboxes)
}

func (b *ByteTransport) Broadcast(msg wire.Message) {
	frame := wire.Encode(msg)
	for i := range b.inboxes {
		b.deliver(i, frame)
	}
}

func (b *ByteTransport) SendToSelf(msg wire.Message) {
	b.deliver(b.self, wire.Encode(msg))
}

func (b *ByteTransport) deliver(dest int, frame []byte) {
	if b.closed.isClosed(dest) {
		logSendFailure(b.log, b.self, dest)
		return
	}
	defer func() {
		if recover() != nil {
			logSendFailure(b.log, b.self, dest)
		}
	}()
	select {
	case b.inboxes[dest] <- frame:
	default:
		logSendFailure(b.log, b.self, dest)
	}
}

// Receive blocks for the next frame on this peer's inbox and decodes it.
// A well-formed peer never produces a malformed frame, so a decode error
// here is fatal (panic): it indicates a bug, or a fault outside the
// modeled fault set (spec.md §4.2, §7).
func (b *ByteTransport) Receive() wire.Message {
	frame, ok := <-b.inboxes[b.self]
	if !ok {
		panic(ErrClosedInbox)
	}
	msg, err := wire.Decode(frame)
	if err != nil {
		panic(err)
	}
	return msg
}

func (b *ByteTransport) Close() {
	b.closed.markClosed(b.self)
	close(b.inboxes[b.self])
}
