package capture

import "testing"

func TestSessionLifecycle(t *testing.T) {
	s := NewSession()
	if s.Collecting() {
		t.Fatal("new session is collecting")
	}
	if s.Ingest(Row{Name: "x.png", URL: "https://example.com/x.png"}) {
		t.Fatal("Ingest() accepted a row before Start()")
	}

	s.Start()
	if !s.Ingest(Row{Name: "x.png", URL: "https://example.com/x.png"}) {
		t.Fatal("Ingest() rejected a row while collecting")
	}

	s.Stop()
	if s.Ingest(Row{Name: "y.png", URL: "https://example.com/y.png"}) {
		t.Fatal("Ingest() accepted a row after Stop()")
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (rows survive Stop)", s.Len())
	}

	s.Start()
	if !s.Ingest(Row{Name: "z.png", URL: "https://example.com/z.png"}) {
		t.Fatal("Ingest() rejected a row after restart")
	}
	if s.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", s.Len())
	}
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Ingest(Row{Name: "x.png", URL: "https://example.com/x.png"})

	s.Reset()
	if s.Len() != 0 {
		t.Fatalf("Len() = %d after Reset(), want 0", s.Len())
	}
	if !s.Collecting() {
		t.Fatal("Reset() cleared the collecting flag")
	}
}

func TestSessionSnapshotIsCopy(t *testing.T) {
	s := NewSession()
	s.Start()
	s.Ingest(Row{Name: "x.png", URL: "https://example.com/x.png"})

	snap := s.Snapshot()
	snap[0].Name = "mutated"

	if got := s.Snapshot()[0].Name; got != "x.png" {
		t.Fatalf("Snapshot() exposed internal state, name = %q", got)
	}
}
