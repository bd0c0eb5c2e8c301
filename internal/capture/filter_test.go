package capture

import "testing"

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		wantName string
		wantOK   bool
	}{
		{"png", "https://cdn.example.com/img/x.png", "x.png", true},
		{"jpg with query", "https://cdn.example.com/img/y.jpg?v=2", "y.jpg", true},
		{"uppercase extension", "https://example.com/BANNER.PNG", "BANNER.PNG", true},
		{"svg", "https://example.com/icons/logo.svg", "logo.svg", true},
		{"json rejected", "https://example.com/data/x.json", "", false},
		{"no extension", "https://example.com/page", "", false},
		{"extension spans segments", "https://example.com/a.b/c", "", false},
		{"relative url", "/img/x.png", "", false},
		{"scheme only", "data:image/png;base64,AAAA", "", false},
		{"malformed", "https://exa mple.com/x.png", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, ok := Decide(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("Decide(%q) ok = %v, want %v", tt.url, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if row.Name != tt.wantName {
				t.Fatalf("Decide(%q) name = %q, want %q", tt.url, row.Name, tt.wantName)
			}
			if row.URL != tt.url {
				t.Fatalf("Decide(%q) url = %q, want original", tt.url, row.URL)
			}
		})
	}
}

func TestDecideQueryDoesNotLeakIntoExtension(t *testing.T) {
	// The query string is not part of the path, so a non-image path with an
	// image-looking query must be rejected.
	if _, ok := Decide("https://example.com/page?img=x.png"); ok {
		t.Fatal("Decide() accepted a non-image path with image query")
	}
}
