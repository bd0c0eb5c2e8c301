package appendjob

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AobaIwaki123/url-to-csv/internal/objstore"
)

type fakeStore struct {
	objects map[string][]byte
	order   []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (s *fakeStore) put(key string, data []byte) {
	s.objects[key] = data
	s.order = append(s.order, key)
}

func (s *fakeStore) Put(ctx context.Context, key string, data []byte, meta objstore.Metadata) (objstore.ObjectInfo, error) {
	s.put(key, data)
	return objstore.ObjectInfo{Key: key, Size: len(data)}, nil
}

func (s *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, objstore.ErrNotFound
	}
	return data, nil
}

func (s *fakeStore) List(ctx context.Context, prefix string) ([]objstore.ObjectInfo, error) {
	var infos []objstore.ObjectInfo
	for i := len(s.order) - 1; i >= 0; i-- {
		key := s.order[i]
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			infos = append(infos, objstore.ObjectInfo{
				Key:       key,
				Size:      len(s.objects[key]),
				CreatedAt: time.Now(),
			})
		}
	}
	return infos, nil
}

func (s *fakeStore) Latest(ctx context.Context, prefix string) (objstore.ObjectInfo, error) {
	infos, err := s.List(ctx, prefix)
	if err != nil {
		return objstore.ObjectInfo{}, err
	}
	if len(infos) == 0 {
		return objstore.ObjectInfo{}, objstore.ErrNotFound
	}
	return infos[0], nil
}

type fakeAppender struct {
	batches [][][]string
	err     error
}

func (a *fakeAppender) Append(ctx context.Context, values [][]string) error {
	if a.err != nil {
		return a.err
	}
	a.batches = append(a.batches, values)
	return nil
}

func TestRunAppendsLatestObject(t *testing.T) {
	store := newFakeStore()
	store.put("uploads/old.csv", []byte("\"name\",\"url\"\n\"old.png\",\"https://example.com/old.png\""))
	store.put("uploads/new.csv", []byte("\"name\",\"url\"\n\"new.png\",\"https://example.com/new.png\""))
	appender := &fakeAppender{}

	if err := NewRunner(store, appender).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(appender.batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(appender.batches))
	}
	batch := appender.batches[0]
	if len(batch) != 2 {
		t.Fatalf("batch has %d records, want 2", len(batch))
	}
	if batch[1][0] != "new.png" {
		t.Fatalf("appended %v, want the newest object's rows", batch[1])
	}
}

func TestRunEmptyBucketIsNotAnError(t *testing.T) {
	appender := &fakeAppender{}
	if err := NewRunner(newFakeStore(), appender).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(appender.batches) != 0 {
		t.Fatalf("appender was called %d times on an empty bucket", len(appender.batches))
	}
}

func TestRunEmptyObjectAppendsNothing(t *testing.T) {
	store := newFakeStore()
	store.put("uploads/empty.csv", nil)
	appender := &fakeAppender{}

	if err := NewRunner(store, appender).Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(appender.batches) != 0 {
		t.Fatal("appender was called for an empty object")
	}
}

func TestRunPropagatesAppendFailure(t *testing.T) {
	store := newFakeStore()
	store.put("uploads/a.csv", []byte("\"name\",\"url\""))
	appender := &fakeAppender{err: errors.New("webhook down")}

	if err := NewRunner(store, appender).Run(context.Background()); err == nil {
		t.Fatal("Run() swallowed the append failure")
	}
}
