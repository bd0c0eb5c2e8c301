package objstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

const metaSuffix = ".meta.json"

// FSStore implements Store on the local filesystem: object bytes plus a JSON
// metadata sidecar per key.
type FSStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFSStore creates an FSStore rooted at dir and ensures it exists.
func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("objstore: mkdir %s: %w", dir, err)
	}
	return &FSStore{dir: dir}, nil
}

type sidecar struct {
	Key       string    `json:"key"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
	Metadata  Metadata  `json:"metadata"`
}

func (s *FSStore) validateKey(key string) error {
	if key == "" || strings.Contains(key, "..") || filepath.IsAbs(key) {
		return fmt.Errorf("objstore: invalid key: %q", key)
	}
	return nil
}

func (s *FSStore) objectPath(key string) string {
	return filepath.Join(s.dir, filepath.FromSlash(key))
}

func (s *FSStore) uri(key string) string {
	abs, err := filepath.Abs(s.objectPath(key))
	if err != nil {
		abs = s.objectPath(key)
	}
	return "file://" + filepath.ToSlash(abs)
}

// Put writes the object and its metadata sidecar.
func (s *FSStore) Put(ctx context.Context, key string, data []byte, meta Metadata) (ObjectInfo, error) {
	_ = ctx
	if err := s.validateKey(key); err != nil {
		return ObjectInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.objectPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ObjectInfo{}, fmt.Errorf("objstore: mkdir for %s: %w", key, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ObjectInfo{}, fmt.Errorf("objstore: write object: %w", err)
	}

	info := ObjectInfo{
		Key:       key,
		URI:       s.uri(key),
		Size:      len(data),
		CreatedAt: time.Now().UTC(),
		Metadata:  meta,
	}
	side := sidecar{Key: key, Size: info.Size, CreatedAt: info.CreatedAt, Metadata: meta}
	sideBytes, err := json.MarshalIndent(side, "", "  ")
	if err != nil {
		_ = os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("objstore: marshal metadata: %w", err)
	}
	if err := os.WriteFile(path+metaSuffix, sideBytes, 0o644); err != nil {
		_ = os.Remove(path)
		return ObjectInfo{}, fmt.Errorf("objstore: write metadata: %w", err)
	}
	return info, nil
}

// Get reads an object's contents.
func (s *FSStore) Get(ctx context.Context, key string) ([]byte, error) {
	_ = ctx
	if err := s.validateKey(key); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.objectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("objstore: read object: %w", err)
	}
	return data, nil
}

// List returns all objects under prefix, newest first.
func (s *FSStore) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	var infos []ObjectInfo
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, metaSuffix) {
			return err
		}
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		var side sidecar
		if json.Unmarshal(data, &side) != nil {
			return nil
		}
		if !strings.HasPrefix(side.Key, prefix) {
			return nil
		}
		infos = append(infos, ObjectInfo{
			Key:       side.Key,
			URI:       s.uri(side.Key),
			Size:      side.Size,
			CreatedAt: side.CreatedAt,
			Metadata:  side.Metadata,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("objstore: list %s: %w", prefix, err)
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.After(infos[j].CreatedAt)
	})
	return infos, nil
}

// Latest returns the newest object under prefix.
func (s *FSStore) Latest(ctx context.Context, prefix string) (ObjectInfo, error) {
	infos, err := s.List(ctx, prefix)
	if err != nil {
		return ObjectInfo{}, err
	}
	if len(infos) == 0 {
		return ObjectInfo{}, ErrNotFound
	}
	return infos[0], nil
}
