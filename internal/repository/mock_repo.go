package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// MockPromptRepository is a hand-written, in-memory implementation of
// PromptRepository used in unit tests. No mock-generation library needed.
type MockPromptRepository struct {
	mu      sync.RWMutex
	prompts map[string]*domain.Prompt

	// Optional error overrides, set in tests to simulate failure paths.
	UpsertErr error
	DeleteErr error
}

func NewMockPromptRepository() *MockPromptRepository {
	return &MockPromptRepository{prompts: make(map[string]*domain.Prompt)}
}

func (m *MockPromptRepository) Upsert(_ context.Context, p *domain.Prompt) (bool, error) {
	if m.UpsertErr != nil {
		return false, m.UpsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, existing := range m.prompts {
		if existing.Alias == p.Alias {
			existing.Name = p.Name
			existing.Content = p.Content
			existing.ProfileID = p.ProfileID
			existing.Tags = p.Tags
			existing.Version++
			existing.UpdatedAt = now
			*p = *existing
			return false, nil
		}
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	p.Version = 1
	p.CreatedAt = now
	p.UpdatedAt = now
	clone := *p
	m.prompts[p.ID] = &clone
	return true, nil
}

func (m *MockPromptRepository) GetByID(_ context.Context, id string) (*domain.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.prompts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *MockPromptRepository) GetByAlias(_ context.Context, alias string) (*domain.Prompt, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.prompts {
		if p.Alias == alias {
			clone := *p
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockPromptRepository) List(_ context.Context, _ domain.PromptFilter) ([]*domain.Prompt, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Prompt, 0, len(m.prompts))
	for _, p := range m.prompts {
		clone := *p
		result = append(result, &clone)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Alias < result[j].Alias })
	return result, len(result), nil
}

func (m *MockPromptRepository) Delete(_ context.Context, id string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.prompts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.prompts, id)
	return nil
}

// MockAuditRepository is the in-memory AuditRepository used in unit tests.
type MockAuditRepository struct {
	mu      sync.RWMutex
	entries []*domain.AuditEntry

	InsertErr error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Insert(_ context.Context, e *domain.AuditEntry) error {
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	clone := *e
	m.entries = append(m.entries, &clone)
	return nil
}

func (m *MockAuditRepository) List(_ context.Context, f domain.AuditFilter) ([]*domain.AuditEntry, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.AuditEntry
	for _, e := range m.entries {
		if f.EntityType != nil && e.EntityType != *f.EntityType {
			continue
		}
		if f.EntityID != nil && e.EntityID != *f.EntityID {
			continue
		}
		clone := *e
		result = append(result, &clone)
	}
	return result, len(result), nil
}

func (m *MockAuditRepository) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.entries[:0]
	var removed int64
	for _, e := range m.entries {
		if e.CreatedAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return removed, nil
}

// Len returns the number of stored entries.
func (m *MockAuditRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
