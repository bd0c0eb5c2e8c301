package session

import "testing"

func TestTokenStore(t *testing.T) {
	s := NewTokenStore()
	if _, ok := s.Get(); ok {
		t.Fatal("new store holds a token")
	}

	s.Set("tok-1")
	token, ok := s.Get()
	if !ok || token != "tok-1" {
		t.Fatalf("Get() = %q, %v, want \"tok-1\", true", token, ok)
	}

	s.Set("tok-2")
	if token, _ := s.Get(); token != "tok-2" {
		t.Fatalf("Get() = %q after overwrite, want \"tok-2\"", token)
	}

	s.Clear()
	if _, ok := s.Get(); ok {
		t.Fatal("Get() returned a token after Clear()")
	}
}
