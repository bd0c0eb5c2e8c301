package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSSEHandlerStreamsEvents(t *testing.T) {
	broker := NewBroker()
	ctx, cancel := context.WithCancel(context.Background())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/feed/sse", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		SSEHandler(broker)(w, req)
		close(done)
	}()

	// Wait for the handler to subscribe before publishing.
	for i := 0; i < 100 && broker.ClientCount() == 0; i++ {
		time.Sleep(5 * time.Millisecond)
	}
	if broker.ClientCount() != 1 {
		t.Fatal("handler never subscribed")
	}

	broker.Publish(Event{Kind: "row", Payload: `{"name":"x.png"}`})
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not exit on client disconnect")
	}

	body := w.Body.String()
	if !strings.Contains(body, "event: row\ndata: {\"name\":\"x.png\"}\n\n") {
		t.Fatalf("stream = %q", body)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("Content-Type = %q", ct)
	}
	if broker.ClientCount() != 0 {
		t.Fatal("handler left its subscription behind")
	}
}
