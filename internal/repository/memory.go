package repository

import (
	"context"
	"strings"
	"sync"
	"time"

	"shareit/internal/models"
)

// MemorySearchCache is the in-process fallback for the search cache.
type MemorySearchCache struct {
	entries sync.Map
	ttl     time.Duration
}

type searchEntry struct {
	items     []models.Item
	expiresAt time.Time
}

func NewMemorySearchCache(ttl time.Duration) *MemorySearchCache {
	return &MemorySearchCache{ttl: ttl}
}

func (m *MemorySearchCache) GetSearch(ctx context.Context, text string) ([]models.Item, error) {
	val, ok := m.entries.Load(strings.ToLower(text))
	if !ok {
		return nil, nil
	}
	entry := val.(searchEntry)
	if time.Now().After(entry.expiresAt) {
		m.entries.Delete(strings.ToLower(text))
		return nil, nil
	}
	return entry.items, nil
}

func (m *MemorySearchCache) SetSearch(ctx context.Context, text string, items []models.Item) error {
	m.entries.Store(strings.ToLower(text), searchEntry{
		items:     items,
		expiresAt: time.Now().Add(m.ttl),
	})
	return nil
}

func (m *MemorySearchCache) Invalidate(ctx context.Context) error {
	m.entries.Range(func(key, _ interface{}) bool {
		m.entries.Delete(key)
		return true
	})
	return nil
}
