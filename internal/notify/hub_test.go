package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"auradash/internal/logger"

	"github.com/gorilla/websocket"
)

// dialTestClient establishes a real websocket pair: the server side is
// registered with the hub and returned alongside the client side.
func dialTestClient(t *testing.T, hub *Hub) (clientConn, serverConn *websocket.Conn) {
	t.Helper()
	upgrader := websocket.Upgrader{}
	accepted := make(chan *websocket.Conn, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(conn)
		accepted <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	clientConn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = clientConn.Close() })

	select {
	case serverConn = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for server-side registration")
	}
	return clientConn, serverConn
}

func TestHubSend_NoClients(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))

	err := hub.Send(context.Background(), Notification{Title: "Critical alert", Body: "x"})
	if err != nil {
		t.Fatalf("Send() with zero clients error = %v", err)
	}
}

func TestHubSend_BroadcastsEnvelope(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))
	client, _ := dialTestClient(t, hub)

	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d, want 1", hub.ClientCount())
	}

	want := Notification{
		Title:    "Critical alert",
		Body:     "Motor 1 is critically overheating (96°C)",
		Priority: PriorityUrgent,
		NodeID:   3,
		AlertID:  "a-1",
	}
	if err := hub.Send(context.Background(), want); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	_ = client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := client.ReadMessage()
	if err != nil {
		t.Fatalf("client read error = %v", err)
	}

	var got struct {
		Type string       `json:"type"`
		Data Notification `json:"data"`
	}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode %q: %v", raw, err)
	}
	if got.Type != "notification" {
		t.Fatalf("envelope type = %q", got.Type)
	}
	if got.Data != want {
		t.Fatalf("payload = %+v, want %+v", got.Data, want)
	}
}

// Broadcasts arrive from the sync pass (scheduler goroutine or a manual run)
// while the /ws handler pings on its own ticker; all of it lands on one
// connection, which tolerates only a single writer at a time. Hammering
// both paths concurrently must neither panic nor drop the client.
func TestHubConcurrentSendAndPing(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))
	client, server := dialTestClient(t, hub)

	// Drain everything the hub writes; ReadMessage also answers pings.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_ = client.SetReadDeadline(time.Now().Add(5 * time.Second))
			if _, _, err := client.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx := context.Background()
	n := Notification{Title: "Warning", Body: "Motor 1 is running hot (85°C)", Priority: PriorityNormal}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := hub.Send(ctx, n); err != nil {
					t.Errorf("Send() error = %v", err)
					return
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < 50; j++ {
			if err := hub.Ping(server); err != nil {
				t.Errorf("Ping() error = %v", err)
				return
			}
		}
	}()
	wg.Wait()

	if hub.ClientCount() != 1 {
		t.Fatalf("ClientCount() = %d after concurrent writes, want 1", hub.ClientCount())
	}

	_ = client.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("reader did not finish")
	}
}

func TestHubPing_UnregisteredConn(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))
	_, server := dialTestClient(t, hub)

	hub.Unregister(server)
	if err := hub.Ping(server); !errors.Is(err, ErrClientGone) {
		t.Fatalf("Ping() after unregister = %v, want ErrClientGone", err)
	}
}

func TestHubSend_DropsFailedConnections(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))
	client, _ := dialTestClient(t, hub)

	// Closing the client underneath the hub makes the next write fail, and
	// the hub must prune the connection rather than error.
	_ = client.Close()

	ctx := context.Background()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() > 0 && time.Now().Before(deadline) {
		if err := hub.Send(ctx, Notification{Title: "Warning", Body: "x"}); err != nil {
			t.Fatalf("Send() error = %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d after failed writes, want 0", hub.ClientCount())
	}
}

func TestHubUnregisterUnknownConnIsSafe(t *testing.T) {
	hub := NewHub(logger.Get(logger.ErrorLevel))
	hub.Unregister(&websocket.Conn{})
	if hub.ClientCount() != 0 {
		t.Fatalf("ClientCount() = %d, want 0", hub.ClientCount())
	}
}
