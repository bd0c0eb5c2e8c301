package csvio

import (
	"reflect"
	"testing"
	"time"

	"github.com/AobaIwaki123/url-to-csv/internal/capture"
)

func TestEscapeField(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "cat.png", `"cat.png"`},
		{"empty", "", `""`},
		{"comma", "a,b", `"a,b"`},
		{"quote", `say "hi"`, `"say ""hi"""`},
		{"newline", "a\nb", "\"a\nb\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeField(tt.input); got != tt.want {
				t.Fatalf("EscapeField(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	rows := []capture.Row{
		{Name: "x.png", URL: "https://cdn.example.com/img/x.png"},
		{Name: "y.jpg", URL: "https://cdn.example.com/img/y.jpg?v=2"},
	}

	got := Serialize(rows, DefaultOptions())
	want := "\"name\",\"url\"\n" +
		"\"x.png\",\"https://cdn.example.com/img/x.png\"\n" +
		"\"y.jpg\",\"https://cdn.example.com/img/y.jpg?v=2\""
	if got != want {
		t.Fatalf("Serialize() = %q, want %q", got, want)
	}
}

func TestSerializeNoHeaders(t *testing.T) {
	rows := []capture.Row{{Name: "x.png", URL: "https://example.com/x.png"}}
	got := Serialize(rows, Options{IncludeHeaders: false})
	if got != `"x.png","https://example.com/x.png"` {
		t.Fatalf("Serialize() = %q", got)
	}
}

func TestSerializeEmpty(t *testing.T) {
	got := Serialize(nil, DefaultOptions())
	if got != `"name","url"` {
		t.Fatalf("Serialize(nil) = %q, want header line only", got)
	}
}

func TestSerializeNoTrailingNewline(t *testing.T) {
	rows := []capture.Row{{Name: "a.gif", URL: "https://example.com/a.gif"}}
	got := Serialize(rows, DefaultOptions())
	if got[len(got)-1] == '\n' {
		t.Fatalf("Serialize() ends with newline: %q", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	rows := []capture.Row{
		{Name: "plain.png", URL: "https://example.com/plain.png"},
		{Name: `tricky "name".png`, URL: "https://example.com/a,b/tricky.png"},
		{Name: "multi\nline.png", URL: "https://example.com/m.png"},
	}

	records, err := Parse(Serialize(rows, DefaultOptions()))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("Parse() returned %d records, want %d", len(records), len(rows)+1)
	}
	if !reflect.DeepEqual(records[0], []string{"name", "url"}) {
		t.Fatalf("header = %v", records[0])
	}
	for i, row := range rows {
		got := records[i+1]
		if got[0] != row.Name || got[1] != row.URL {
			t.Fatalf("record %d = %v, want [%q %q]", i, got, row.Name, row.URL)
		}
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC)
	got := Filename("network_images", now)
	want := "network_images_2025-01-02_15_04_05.csv"
	if got != want {
		t.Fatalf("Filename() = %q, want %q", got, want)
	}
}

func TestFilenameConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("plus9", 9*3600)
	now := time.Date(2025, 1, 3, 0, 30, 0, 0, loc)
	got := Filename("network_images", now)
	want := "network_images_2025-01-02_15_30_00.csv"
	if got != want {
		t.Fatalf("Filename() = %q, want %q", got, want)
	}
}
