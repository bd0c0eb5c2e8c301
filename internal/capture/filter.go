package capture

import (
	"net/url"
	"strings"
)

// imageExts is the fixed allow-set of image file extensions. Matching is
// case-insensitive and ignores the query string.
var imageExts = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
	"webp": true,
	"svg":  true,
	"avif": true,
	"bmp":  true,
	"ico":  true,
}

// Row is a single captured (name, url) pair. Name is the last non-empty
// path segment of URL; URL is the original absolute request URL.
type Row struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Decide inspects a finished request URL and returns the row to capture.
// Rejections are silent: a malformed or non-absolute URL, or an extension
// outside the image allow-set, yields ok=false and no side effects.
func Decide(rawURL string) (Row, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" {
		return Row{}, false
	}

	// The extension is everything after the last dot of the lower-cased
	// path, so "/a.b/c" has extension "b/c" and is rejected.
	path := strings.ToLower(parsed.Path)
	idx := strings.LastIndex(path, ".")
	if idx < 0 || !imageExts[path[idx+1:]] {
		return Row{}, false
	}

	return Row{Name: displayName(parsed, rawURL), URL: rawURL}, true
}

// displayName returns the last non-empty path segment, falling back to the
// raw URL when the path has no segments.
func displayName(parsed *url.URL, rawURL string) string {
	segments := strings.Split(parsed.Path, "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" {
			return segments[i]
		}
	}
	return rawURL
}
