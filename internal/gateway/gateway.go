// Package gateway defines the persistence boundary for workspace state.
// The core treats persistence as an injected key/value capability; gateway
// failures surface as recoverable errors and never corrupt previously
// persisted state.
package gateway

import (
	"context"
	"errors"
	"sync"
)

// Logical keys the application persists under.
const (
	KeyWorkspace = "workspace"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("gateway: key not found")

// Gateway is the injected blob store: local SQLite in the offline variant,
// a remote API in the hosted one.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Memory is an in-process Gateway for tests and ephemeral sessions.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string][]byte

	// FailSet, when set, makes every Set return that error. Tests use it
	// to exercise persistence-failure paths.
	FailSet error
}

// NewMemory creates an empty in-memory gateway.
func NewMemory() *Memory {
	return &Memory{blobs: make(map[string][]byte)}
}

// Get returns a copy of the stored blob.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.blobs[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Set stores a copy of the blob.
func (m *Memory) Set(_ context.Context, key string, value []byte) error {
	if m.FailSet != nil {
		return m.FailSet
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	v := make([]byte, len(value))
	copy(v, value)
	m.blobs[key] = v
	return nil
}
