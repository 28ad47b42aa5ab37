package ws

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func TestHub_RoutesByUser(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	alice, bob := uuid.New(), uuid.New()
	ca := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	cb := &Client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	hub.Register(ca)
	hub.Register(cb)
	waitFor(t, func() bool { return hub.ClientCount(alice) == 1 && hub.ClientCount(bob) == 1 })

	NewNotifier(hub).PipelineState(alice, "INIT", "SEARCH_ATTEMPT")

	select {
	case msg := <-ca.send:
		var evt StateChangedEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if evt.Type != "referral_state" || evt.To != "SEARCH_ATTEMPT" {
			t.Fatalf("unexpected event %+v", evt)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("alice did not receive event")
	}

	select {
	case msg := <-cb.send:
		t.Fatalf("bob must not receive alice's events, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	uid := uuid.New()
	c := &Client{hub: hub, userID: uid, send: make(chan []byte, 1)}
	hub.Register(c)
	waitFor(t, func() bool { return hub.ClientCount(uid) == 1 })

	hub.Unregister(c)
	waitFor(t, func() bool { return hub.ClientCount(uid) == 0 })
	if _, ok := <-c.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}

func TestHandler_StreamsEventsOverWebsocket(t *testing.T) {
	hub := NewHub(quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	uid := uuid.New()
	srv := httptest.NewServer(NewHandler(hub, quietLogger()).serve(uid))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	waitFor(t, func() bool { return hub.ClientCount(uid) == 1 })

	NewNotifier(hub).PipelineState(uid, "SEARCH_ATTEMPT", "SUCCESS")

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(msg), `"to":"SUCCESS"`) {
		t.Fatalf("unexpected message %s", msg)
	}
}
