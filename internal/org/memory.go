package org

import (
	"context"
	"sort"
	"sync"

	"saasbase.org/internal/ids"
)

// Memory implements Store in process memory, mirroring the backends'
// single-operation atomicity and unique slug constraint. Used when no
// storage DSN is configured and throughout the test suite.
type Memory struct {
	mu      sync.RWMutex
	records map[string]*Organisation
}

var _ Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{records: make(map[string]*Organisation)}
}

func matches(o *Organisation, f Filter) bool {
	if f.ID != "" && o.ID != f.ID {
		return false
	}
	if f.Slug != "" && o.Slug != f.Slug {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.ExcludeID != "" && o.ID == f.ExcludeID {
		return false
	}
	return true
}

func (m *Memory) FindAll(ctx context.Context, f Filter) ([]Organisation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []Organisation
	for _, o := range m.records {
		if matches(o, f) {
			out = append(out, *o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *Memory) FindOne(ctx context.Context, f Filter) (*Organisation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, o := range m.records {
		if matches(o, f) {
			cp := *o
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) Insert(ctx context.Context, o *Organisation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == "" {
		o.ID = ids.New()
	}
	for _, existing := range m.records {
		if existing.Slug == o.Slug {
			return ErrSlugTaken
		}
	}
	cp := *o
	m.records[o.ID] = &cp
	return nil
}

func (m *Memory) FindAndUpdate(ctx context.Context, id string, p Patch) (*Organisation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	if p.Slug != nil {
		for _, existing := range m.records {
			if existing.ID != id && existing.Slug == *p.Slug {
				return nil, ErrSlugTaken
			}
		}
		o.Slug = *p.Slug
	}
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	o.UpdatedAt = p.UpdatedAt
	cp := *o
	return &cp, nil
}

func (m *Memory) Delete(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.records[id]; !ok {
		return false, nil
	}
	delete(m.records, id)
	return true, nil
}
