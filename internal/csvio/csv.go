// Package csvio serializes captured rows to CSV and parses uploaded CSV
// payloads. Serialization quotes every field so commas, quotes, and embedded
// newlines always round-trip through a quote-aware parser.
package csvio

import (
	"strings"
	"time"

	"github.com/AobaIwaki123/url-to-csv/internal/capture"
)

// DefaultHeaders name the two exported columns.
var DefaultHeaders = []string{"name", "url"}

// Options controls Serialize output.
type Options struct {
	Headers        []string
	IncludeHeaders bool
}

// DefaultOptions returns the header-bearing default configuration.
func DefaultOptions() Options {
	return Options{Headers: DefaultHeaders, IncludeHeaders: true}
}

var quoteDoubler = strings.NewReplacer(`"`, `""`)

// EscapeField wraps a value in double quotes, doubling embedded quotes.
func EscapeField(v string) string {
	return `"` + quoteDoubler.Replace(v) + `"`
}

func joinLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, f := range fields {
		escaped[i] = EscapeField(f)
	}
	return strings.Join(escaped, ",")
}

// Serialize renders rows as CSV text: an optional header line followed by one
// line per row, joined by \n with no trailing newline.
func Serialize(rows []capture.Row, opts Options) string {
	headers := opts.Headers
	if headers == nil {
		headers = DefaultHeaders
	}

	lines := make([]string, 0, len(rows)+1)
	if opts.IncludeHeaders {
		lines = append(lines, joinLine(headers))
	}
	for _, row := range rows {
		lines = append(lines, joinLine([]string{row.Name, row.URL}))
	}
	return strings.Join(lines, "\n")
}

var timestampUnderscorer = strings.NewReplacer("T", "_", ":", "_")

// Filename derives a timestamped CSV filename like
// "prefix_2025-01-02_15_04_05.csv". Second resolution, UTC.
func Filename(prefix string, now time.Time) string {
	ts := timestampUnderscorer.Replace(now.UTC().Format("2006-01-02T15:04:05"))
	return prefix + "_" + ts + ".csv"
}
