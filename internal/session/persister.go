package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/redis/go-redis/v9"
)

// Keys under which the session is persisted.
const (
	KeyUser  = "user"
	KeyToken = "token"
)

// Persister is durable key-value storage for the session.
type Persister interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}

// MemoryPersister keeps the session for the life of the process.
type MemoryPersister struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryPersister() *MemoryPersister {
	return &MemoryPersister{values: make(map[string]string)}
}

func (m *MemoryPersister) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryPersister) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryPersister) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}

// RedisPersister stores the session in Redis under a namespace.
type RedisPersister struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisPersister namespaces keys as "<namespace>:<key>".
func NewRedisPersister(rdb *redis.Client, namespace string) *RedisPersister {
	if namespace == "" {
		namespace = "uniconnect:session"
	}
	return &RedisPersister{rdb: rdb, namespace: namespace}
}

func (r *RedisPersister) key(k string) string {
	return r.namespace + ":" + k
}

func (r *RedisPersister) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.rdb.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *RedisPersister) Set(ctx context.Context, key, value string) error {
	return r.rdb.Set(ctx, r.key(key), value, 0).Err()
}

func (r *RedisPersister) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	return r.rdb.Del(ctx, full...).Err()
}

// FilePersister keeps the session in a small JSON file so the CLI stays
// signed in between runs.
type FilePersister struct {
	mu   sync.Mutex
	path string
}

func NewFilePersister(path string) *FilePersister {
	return &FilePersister{path: path}
}

func (f *FilePersister) load() (map[string]string, error) {
	values := make(map[string]string)
	b, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(b, &values); err != nil {
		return nil, fmt.Errorf("decode session file: %w", err)
	}
	return values, nil
}

func (f *FilePersister) store(values map[string]string) error {
	b, err := json.Marshal(values)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

func (f *FilePersister) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *FilePersister) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		// An unreadable file is replaced rather than blocking sign-in
		values = make(map[string]string)
	}
	values[key] = value
	return f.store(values)
}

func (f *FilePersister) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		values = make(map[string]string)
	}
	for _, k := range keys {
		delete(values, k)
	}
	return f.store(values)
}
