package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryGateway is a thread-safe in-memory gateway for tests and
// throwaway runs. Collections are stored as encoded JSON so that load and
// save go through the same codec as the durable backends.
type MemoryGateway struct {
	mu          sync.RWMutex
	collections map[string][]byte
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		collections: make(map[string][]byte),
	}
}

func (g *MemoryGateway) LoadCollection(_ context.Context, name string, out any) error {
	g.mu.RLock()
	data, ok := g.collections[name]
	g.mu.RUnlock()
	if !ok {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode collection %s: %w", name, err)
	}
	return nil
}

func (g *MemoryGateway) SaveCollection(_ context.Context, name string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", name, err)
	}
	g.mu.Lock()
	g.collections[name] = data
	g.mu.Unlock()
	return nil
}

func (g *MemoryGateway) Close(context.Context) error {
	return nil
}
