package storage

import (
	"context"
	"slices"
	"sync"
)

type MemoryBackend struct {
	mu    sync.Mutex
	data  []byte
	saves int
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(_ context.Context) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.data == nil {
		return nil, ErrNoData
	}
	return slices.Clone(b.data), nil
}

func (b *MemoryBackend) Save(_ context.Context, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.data = slices.Clone(data)
	b.saves++
	return nil
}

// Saves returns how many times Save has been called.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.saves
}

func (b *MemoryBackend) Close() error {
	return nil
}
