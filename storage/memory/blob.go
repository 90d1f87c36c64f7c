package memory

import (
	"context"
	"sync"

	"rideshare/storage"
)

// Blob is an in-process IBlobStorage. Nothing survives a restart.
type Blob struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewBlob() *Blob {
	return &Blob{data: make(map[string][]byte)}
}

var _ storage.IBlobStorage = (*Blob)(nil)

func (b *Blob) Load(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (b *Blob) Save(_ context.Context, key string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), data...)
	return nil
}

func (b *Blob) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.data, key)
	return nil
}

func (b *Blob) Close() error { return nil }
