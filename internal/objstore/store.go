// Package objstore is the narrow boundary to upload object storage. Objects
// are immutable: each upload creates a new object under a timestamped key and
// nothing in this system ever mutates or deletes one.
package objstore

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when no object matches a key or prefix.
var ErrNotFound = errors.New("objstore: object not found")

// Metadata is attached to every stored object.
type Metadata struct {
	Source     string    `json:"source"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Key       string    `json:"key"`
	URI       string    `json:"uri"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Metadata  Metadata  `json:"metadata"`
}

// Store is the object storage interface the ingest service and append job
// depend on.
type Store interface {
	// Put writes data under key with metadata and returns the stored
	// object's info.
	Put(ctx context.Context, key string, data []byte, meta Metadata) (ObjectInfo, error)
	// Get reads an object's contents by key.
	Get(ctx context.Context, key string) ([]byte, error)
	// List returns info for all objects under prefix, newest first.
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
	// Latest returns the most recently created object under prefix, or
	// ErrNotFound when the prefix is empty.
	Latest(ctx context.Context, prefix string) (ObjectInfo, error)
}

// UploadPrefix namespaces uploaded CSV objects.
const UploadPrefix = "uploads/"

var keyUnderscorer = strings.NewReplacer(":", "_", ".", "_")

// UploadKey derives the timestamped object key for an upload instant, e.g.
// "uploads/2025-01-02T15_04_05_000Z.csv".
func UploadKey(now time.Time) string {
	ts := keyUnderscorer.Replace(now.UTC().Format("2006-01-02T15:04:05.000Z"))
	return UploadPrefix + ts + ".csv"
}
