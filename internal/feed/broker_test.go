package feed

import (
	"testing"
	"time"
)

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	_, ch1 := b.Subscribe()
	_, ch2 := b.Subscribe()

	if got := b.ClientCount(); got != 2 {
		t.Fatalf("ClientCount() = %d, want 2", got)
	}

	evt := Event{Kind: "row", Payload: `{"name":"x.png"}`}
	b.Publish(evt)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			if got != evt {
				t.Fatalf("subscriber %d got %+v, want %+v", i, got, evt)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d received nothing", i)
		}
	}
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	id, ch := b.Subscribe()
	b.Unsubscribe(id)

	if _, open := <-ch; open {
		t.Fatal("channel still open after Unsubscribe()")
	}
	if got := b.ClientCount(); got != 0 {
		t.Fatalf("ClientCount() = %d, want 0", got)
	}
}

func TestBrokerPublishNeverBlocks(t *testing.T) {
	b := NewBroker()
	b.Subscribe() // never drained

	done := make(chan struct{})
	go func() {
		for i := 0; i < subscriberBufSize*2; i++ {
			b.Publish(Event{Kind: "row", Payload: "{}"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish() blocked on a slow subscriber")
	}
}
