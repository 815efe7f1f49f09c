package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestClient(h *Hub, userID string) *Client {
	return &Client{hub: h, send: make(chan []byte, 4), userID: userID, logger: zerolog.Nop()}
}

func recv(t *testing.T, c *Client) Message {
	t.Helper()
	select {
	case raw := <-c.send:
		var m Message
		if err := json.Unmarshal(raw, &m); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return m
	case <-time.After(time.Second):
		t.Fatal("no message delivered")
	}
	return Message{}
}

// ── delivery ───────────────────────────────────────────────

func TestSendToUser_ReachesEveryConnectionOfThatUser(t *testing.T) {
	h := NewHub(zerolog.Nop())
	go h.Run()
	defer h.Stop()

	tab1, tab2, other := newTestClient(h, "u1"), newTestClient(h, "u1"), newTestClient(h, "u2")
	h.register <- tab1
	h.register <- tab2
	h.register <- other

	h.SendToUser("u1", EventNotification, map[string]string{"title": "Acme"})

	for _, c := range []*Client{tab1, tab2} {
		m := recv(t, c)
		if m.Type != EventNotification || string(m.Data) != `{"title":"Acme"}` {
			t.Errorf("message = %+v", m)
		}
	}
	select {
	case <-other.send:
		t.Error("u2 received u1's notification")
	case <-time.After(50 * time.Millisecond):
	}
	if h.ConnectionCount("u1") != 2 || !h.IsOnline("u2") || h.IsOnline("u3") {
		t.Error("connection bookkeeping wrong")
	}
}

func TestDeliver_DropsFullClient(t *testing.T) {
	h := NewHub(zerolog.Nop())
	slow := &Client{hub: h, send: make(chan []byte), userID: "u1"}
	h.registerClient(slow)

	h.deliver(&Message{Type: EventNotification, UserID: "u1"})

	if h.IsOnline("u1") {
		t.Error("slow client should have been removed")
	}
	if _, ok := <-slow.send; ok {
		t.Error("send channel should be closed")
	}
}

func TestUnregister_Idempotent(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient(h, "u1")
	h.registerClient(c)
	h.unregisterClient(c)
	h.unregisterClient(c)
	if h.IsOnline("u1") {
		t.Error("client still registered")
	}
}

// ── receipts ───────────────────────────────────────────────

type fakeMarker struct {
	mu     sync.Mutex
	seen   []string
	all    bool
	unread int
}

func (f *fakeMarker) MarkSeen(_ context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, userID+":"+id)
	f.unread--
	return nil
}

func (f *fakeMarker) MarkAllSeen(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.all, f.unread = true, 0
	return nil
}

func (f *fakeMarker) UnreadCount(context.Context, string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.unread, nil
}

func TestMessageHandler_MarkSeenRepliesWithCount(t *testing.T) {
	h := NewHub(zerolog.Nop())
	c := newTestClient(h, "u1")
	h.registerClient(c)
	marker := &fakeMarker{unread: 3}
	mh := NewMessageHandler(marker, h, zerolog.Nop())

	mh.Handle(&Message{Type: ClientMarkSeen, UserID: "u1", Data: json.RawMessage(`{"id":"n1"}`)})

	if len(marker.seen) != 1 || marker.seen[0] != "u1:n1" {
		t.Fatalf("seen = %v", marker.seen)
	}
	h.deliver(<-h.push)
	m := recv(t, c)
	if m.Type != EventUnreadCount || string(m.Data) != `{"count":2}` {
		t.Errorf("reply = %+v", m)
	}
}

func TestMessageHandler_IgnoresUnknownTypes(t *testing.T) {
	h := NewHub(zerolog.Nop())
	marker := &fakeMarker{}
	NewMessageHandler(marker, h, zerolog.Nop()).Handle(&Message{Type: "chat", UserID: "u1"})
	if len(h.push) != 0 || marker.all {
		t.Error("unknown message type should be ignored")
	}
}
