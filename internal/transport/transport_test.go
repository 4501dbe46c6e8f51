package transport

import (
	"errors"
	"testing"

	"github.com/jabolina/ben-or-consensus/internal/logging"
	"github.com/jabolina/ben-or-consensus/internal/value"
	"github.com/jabolina/ben-or-consensus/internal/wire"
)

func factories() map[string]func(int, logging.Logger) []Transport {
	return map[string]func(int, logging.Logger) []Transport{
		"memory": NewMemoryTransport,
		"byte":   NewByteTransport,
	}
}

func TestTransport_BroadcastReachesEveryPeerIncludingSelf(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			handles := factory(3, log)
			if handles[0].PeerCount() != 3 {
				t.Fatalf("expected peer count 3, got %d", handles[0].PeerCount())
			}

			msg := wire.Report(1, value.One)
			handles[0].Broadcast(msg)

			for i, h := range handles {
				got := h.Receive()
				if got != msg {
					t.Errorf("peer %d: got %v, want %v", i, got, msg)
				}
			}
		})
	}
}

func TestTransport_SendToSelfOnlyReachesSelf(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			handles := factory(2, log)
			msg := wire.ProposalUndecided(4)
			handles[0].SendToSelf(msg)

			got := handles[0].Receive()
			if got != msg {
				t.Errorf("got %v, want %v", got, msg)
			}

			select {
			case <-receiveNonBlocking(handles[1]):
				t.Error("peer 1 should not have received anything")
			default:
			}
		})
	}
}

func TestTransport_FIFOPerSenderReceiverPair(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			handles := factory(2, log)
			for p := value.Phase(0); p < 10; p++ {
				handles[0].Broadcast(wire.Report(p, value.Zero))
			}
			for p := value.Phase(0); p < 10; p++ {
				got := handles[1].Receive()
				if got.Phase != p {
					t.Fatalf("expected phase %d in order, got %d", p, got.Phase)
				}
			}
		})
	}
}

func TestTransport_ReceiveOnClosedInboxIsFatal(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	for name, factory := range factories() {
		t.Run(name, func(t *testing.T) {
			handles := factory(1, log)
			handles[0].Close()

			defer func() {
				if recover() == nil {
					t.Fatal("expected panic receiving from closed inbox")
				}
			}()
			handles[0].Receive()
		})
	}
}

func TestByteTransport_MalformedFrameIsFatal(t *testing.T) {
	// ByteTransport decodes on Receive; feed a malformed frame straight
	// into the channel to simulate a fault outside the modeled fault set.
	log := logging.NewDefaultLogger("test")
	handles := NewByteTransport(1, log)
	bt := handles[0].(*ByteTransport)
	bt.inboxes[0] <- []byte{0xFF, 0x00}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic decoding malformed frame")
		}
	}()
	handles[0].Receive()
}

func TestNewByteTransportVersioned_RejectsUnsupportedVersion(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	if _, err := NewByteTransportVersioned(2, log, "2.0.0"); !errors.Is(err, ErrUnsupportedProtocol) {
		t.Fatalf("expected ErrUnsupportedProtocol, got %v", err)
	}
}

func TestNewByteTransportVersioned_AcceptsCompatibleVersion(t *testing.T) {
	log := logging.NewDefaultLogger("test")
	handles, err := NewByteTransportVersioned(2, log, "1.2.3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(handles) != 2 {
		t.Fatalf("expected 2 handles, got %d", len(handles))
	}
}

// receiveNonBlocking lets the self-send test poll a handle's inbox without
// blocking forever when nothing was sent.
func receiveNonBlocking(h Transport) <-chan wire.Message {
	ch := make(chan wire.Message, 1)
	switch t := h.(type) {
	case *MemoryTransport:
		select {
		case m := <-t.inboxes[t.self]:
			ch <- m
		default:
		}
	case *ByteTransport:
		select {
		case frame := <-t.inboxes[t.self]:
			m, _ := wire.Decode(frame)
			ch <- m
		default:
		}
	}
	return ch
}
