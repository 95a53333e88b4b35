package websocket

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/starbookhq/starbook/internal/domain"
)

type fakeConn struct {
	userID string
	events chan domain.Event

	mu     sync.Mutex
	closed bool
}

func newFakeConn(userID string) *fakeConn {
	return &fakeConn{userID: userID, events: make(chan domain.Event, 16)}
}

func (c *fakeConn) UserID() string { return c.userID }

func (c *fakeConn) Enqueue(event domain.Event) error {
	select {
	case c.events <- event:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.Nop())
	go hub.Run()
	t.Cleanup(hub.Shutdown)
	return hub
}

// awaitRegistered pushes probe events until one lands on the connection,
// proving the hub's run loop has processed the registration. Probes sent
// before registration settles are dropped silently.
func awaitRegistered(t *testing.T, hub *Hub, conn *fakeConn) {
	t.Helper()
	deadline := time.After(2 * time.Second)
probe:
	for {
		hub.Push(conn.userID, domain.Event{Type: domain.EventNotification})
		select {
		case <-conn.events:
			break probe
		case <-deadline:
			t.Fatal("connection never became reachable through the hub")
		case <-time.After(5 * time.Millisecond):
		}
	}
	// Drop any probes still in flight so later assertions see only the
	// events the test itself sends.
	for {
		select {
		case <-conn.events:
		case <-time.After(20 * time.Millisecond):
			return
		}
	}
}

func recvEvent(t *testing.T, conn *fakeConn, timeout time.Duration) (domain.Event, bool) {
	t.Helper()
	select {
	case event := <-conn.events:
		return event, true
	case <-time.After(timeout):
		return domain.Event{}, false
	}
}

func drain(conn *fakeConn) {
	for {
		select {
		case <-conn.events:
		default:
			return
		}
	}
}

func TestHubPushReachesRegisteredUser(t *testing.T) {
	hub := startHub(t)

	conn := newFakeConn("user-1")
	hub.Register(conn)
	awaitRegistered(t, hub, conn)

	hub.Push("user-1", domain.Event{Type: domain.EventBookingUpdate})
	event, ok := recvEvent(t, conn, time.Second)
	if !ok {
		t.Fatal("event never delivered")
	}
	if event.Type != domain.EventBookingUpdate {
		t.Fatalf("got event type %q, want %q", event.Type, domain.EventBookingUpdate)
	}
}

func TestHubPushWithoutChannelIsNoOp(t *testing.T) {
	hub := startHub(t)

	conn := newFakeConn("user-1")
	hub.Register(conn)
	awaitRegistered(t, hub, conn)

	hub.Push("somebody-else", domain.Event{Type: domain.EventBookingUpdate})

	if event, ok := recvEvent(t, conn, 50*time.Millisecond); ok {
		t.Fatalf("event for another user leaked: %v", event)
	}
}

func TestHubLastRegistrationWins(t *testing.T) {
	hub := startHub(t)

	first := newFakeConn("user-1")
	hub.Register(first)
	awaitRegistered(t, hub, first)

	second := newFakeConn("user-1")
	hub.Register(second)
	awaitRegistered(t, hub, second)

	if !first.isClosed() {
		t.Fatal("superseded channel was not closed")
	}

	drain(first)
	hub.Push("user-1", domain.Event{Type: domain.EventDepositUpdate})
	if _, ok := recvEvent(t, second, time.Second); !ok {
		t.Fatal("replacement channel did not receive the event")
	}
	if event, ok := recvEvent(t, first, 50*time.Millisecond); ok {
		t.Fatalf("superseded channel still receives events: %v", event)
	}
}

func TestHubUnregisterOfSupersededKeepsReplacement(t *testing.T) {
	hub := startHub(t)

	first := newFakeConn("user-1")
	hub.Register(first)
	awaitRegistered(t, hub, first)

	second := newFakeConn("user-1")
	hub.Register(second)
	awaitRegistered(t, hub, second)

	// The superseded channel unregisters as its pumps wind down. That must
	// not evict the replacement.
	hub.Unregister(first)
	time.Sleep(50 * time.Millisecond)

	hub.Push("user-1", domain.Event{Type: domain.EventBalanceUpdate})
	if _, ok := recvEvent(t, second, time.Second); !ok {
		t.Fatal("replacement channel was evicted by stale unregister")
	}
}

func TestHubBroadcastAll(t *testing.T) {
	hub := startHub(t)

	alice := newFakeConn("alice")
	bob := newFakeConn("bob")
	hub.Register(alice)
	hub.Register(bob)
	awaitRegistered(t, hub, alice)
	awaitRegistered(t, hub, bob)

	hub.BroadcastAll(domain.Event{Type: domain.EventNewMessage})

	for _, conn := range []*fakeConn{alice, bob} {
		event, ok := recvEvent(t, conn, time.Second)
		if !ok {
			t.Fatalf("broadcast never reached %s", conn.userID)
		}
		if event.Type != domain.EventNewMessage {
			t.Fatalf("got event type %q, want %q", event.Type, domain.EventNewMessage)
		}
	}
}
