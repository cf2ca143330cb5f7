package storefs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/goliatone/go-cvbuilder/cv"
)

// KV is a key/value store with one file per key, the local equivalent of browser
// storage. Writes are atomic.
type KV struct {
	Root string

	mu sync.RWMutex
}

// NewKV creates a key/value store under root.
func NewKV(root string) *KV {
	return &KV{Root: root}
}

// Get returns the value stored for key.
func (s *KV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	_ = ctx
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return nil, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(pathOnDisk)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, cv.NewError(cv.KindIO, fmt.Sprintf("read key %q", key), err)
	}
	return data, true, nil
}

// Set replaces the value stored for key.
func (s *KV) Set(ctx context.Context, key string, value []byte) error {
	_ = ctx
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := writeAtomic(pathOnDisk, bytes.NewReader(value)); err != nil {
		return cv.NewError(cv.KindIO, fmt.Sprintf("write key %q", key), err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (s *KV) Delete(ctx context.Context, key string) error {
	_ = ctx
	pathOnDisk, err := resolvePath(s.Root, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(pathOnDisk); err != nil && !os.IsNotExist(err) {
		return cv.NewError(cv.KindIO, fmt.Sprintf("delete key %q", key), err)
	}
	return nil
}
