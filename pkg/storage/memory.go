package storage

import (
	"context"
	"log/slog"
	"sync"

	"github.com/JaimeStill/promptdeck/pkg/lifecycle"
)

type memory struct {
	mu     sync.RWMutex
	slots  map[string][]byte
	logger *slog.Logger
}

// NewMemory creates a process-local storage system. Values are lost on exit.
func NewMemory(logger *slog.Logger) System {
	return &memory{
		slots:  make(map[string][]byte),
		logger: logger,
	}
}

func (m *memory) Start(lc *lifecycle.Coordinator) error {
	m.logger.Info("memory storage ready")
	return nil
}

func (m *memory) Read(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(data), nil
}

func (m *memory) Write(ctx context.Context, key string, data []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	m.slots[key] = clone(data)
	m.mu.Unlock()
	return nil
}

func (m *memory) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.slots[key]; !ok {
		return ErrNotFound
	}
	delete(m.slots, key)
	return nil
}

func (m *memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.slots[key]
	return ok, nil
}

func clone(data []byte) []byte {
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
