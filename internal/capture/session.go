package capture

import "sync"

// Session is the append-only row log for one capture panel lifetime.
// Rows grow only while collecting; ingestion arrives from the CDP event
// goroutine while API handlers read concurrently, so access is guarded.
type Session struct {
	mu         sync.Mutex
	collecting bool
	rows       []Row
}

// NewSession creates an empty, stopped session.
func NewSession() *Session {
	return &Session{}
}

// Start enables collection. Idempotent.
func (s *Session) Start() {
	s.mu.Lock()
	s.collecting = true
	s.mu.Unlock()
}

// Stop disables collection. Idempotent; accumulated rows are kept.
func (s *Session) Stop() {
	s.mu.Lock()
	s.collecting = false
	s.mu.Unlock()
}

// Collecting reports whether rows are currently accepted.
func (s *Session) Collecting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collecting
}

// Ingest appends a row if the session is collecting. Returns true when the
// row was kept.
func (s *Session) Ingest(row Row) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.collecting {
		return false
	}
	s.rows = append(s.rows, row)
	return true
}

// Snapshot returns a copy of the current rows in capture order. Callers
// never observe later mutations through it.
func (s *Session) Snapshot() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.rows))
	copy(out, s.rows)
	return out
}

// Len returns the current row count.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Reset discards all accumulated rows. The collecting flag is untouched.
func (s *Session) Reset() {
	s.mu.Lock()
	s.rows = nil
	s.mu.Unlock()
}
