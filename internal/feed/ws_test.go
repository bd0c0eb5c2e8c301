package feed

import (
	"context"
	"encoding/json"
	"net"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
)

func waitForClients(t *testing.T, broker *Broker, want int) {
	t.Helper()
	for i := 0; i < 200; i++ {
		if broker.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount() = %d, want %d", broker.ClientCount(), want)
}

func dialFeed(t *testing.T, url string) net.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	conn, _, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(url, "http"))
	if err != nil {
		t.Fatalf("ws.Dial() error = %v", err)
	}
	return conn
}

func TestWSHandlerStreamsEvents(t *testing.T) {
	broker := NewBroker()
	srv := httptest.NewServer(WSHandler(broker))
	t.Cleanup(srv.Close)

	conn := dialFeed(t, srv.URL)
	defer func() { _ = conn.Close() }()
	waitForClients(t, broker, 1)

	broker.Publish(Event{Kind: "row", Payload: `{"name":"x.png"}`})

	data, err := wsutil.ReadServerText(conn)
	if err != nil {
		t.Fatalf("ReadServerText() error = %v", err)
	}
	var frame wsFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		t.Fatalf("frame = %q: %v", data, err)
	}
	if frame.Kind != "row" || string(frame.Payload) != `{"name":"x.png"}` {
		t.Fatalf("frame = %+v", frame)
	}
}

func TestWSHandlerCleansUpOnClientDisconnect(t *testing.T) {
	broker := NewBroker()
	srv := httptest.NewServer(WSHandler(broker))
	t.Cleanup(srv.Close)

	conn := dialFeed(t, srv.URL)
	waitForClients(t, broker, 1)

	// Hang up without publishing anything. The subscription must still be
	// torn down.
	_ = conn.Close()
	waitForClients(t, broker, 0)
}
