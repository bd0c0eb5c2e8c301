package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookAppenderSendsRangeAndValues(t *testing.T) {
	var got appendRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %q", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a := NewWebhookAppender(nil, srv.URL, "Sheet1!A1")
	values := [][]string{
		{"name", "url"},
		{"x.png", "https://example.com/x.png"},
	}
	if err := a.Append(context.Background(), values); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	if got.Range != "Sheet1!A1" {
		t.Fatalf("range = %q, want Sheet1!A1", got.Range)
	}
	if len(got.Values) != 2 || got.Values[1][0] != "x.png" {
		t.Fatalf("values = %v", got.Values)
	}
}

func TestWebhookAppenderRejectedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	a := NewWebhookAppender(nil, srv.URL, "Sheet1!A1")
	if err := a.Append(context.Background(), [][]string{{"a"}}); err == nil {
		t.Fatal("Append() succeeded on HTTP 403")
	}
}
