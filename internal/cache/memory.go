package cache

import (
	"sync"
	"time"

	"github.com/shopsavvy/savvy-scrape/internal/models"
)

// Memory is an in-process Store.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry

	// now is injectable for expiry tests.
	now func() time.Time
}

type memoryEntry struct {
	products  []models.Product
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *Memory) Get(key string) ([]models.Product, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.now().After(e.expiresAt) {
		return nil, false
	}
	out := make([]models.Product, len(e.products))
	copy(out, e.products)
	return out, true
}

func (m *Memory) Set(key string, products []models.Product, ttl time.Duration) {
	stored := make([]models.Product, len(products))
	copy(stored, products)
	m.mu.Lock()
	m.entries[key] = memoryEntry{products: stored, expiresAt: m.now().Add(ttl)}
	m.mu.Unlock()
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()
}
