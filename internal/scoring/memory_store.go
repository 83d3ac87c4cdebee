package scoring

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for demo/test use.
type MemoryStore struct {
	mu          sync.RWMutex
	assessments map[string][]*Assessment // account number → assessments
}

// NewMemoryStore creates an in-memory assessment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assessments: make(map[string][]*Assessment),
	}
}

func (s *MemoryStore) Record(ctx context.Context, a *Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *a
	cp.Recommendations = append([]string(nil), a.Recommendations...)
	s.assessments[a.AccountNumber] = append(s.assessments[a.AccountNumber], &cp)
	return nil
}

func (s *MemoryStore) ListByAccount(ctx context.Context, accountNumber string, before *time.Time, limit int) ([]*Assessment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.assessments[accountNumber]
	if len(all) == 0 {
		return nil, nil
	}

	// Most recent first, up to limit
	result := make([]*Assessment, 0, limit)
	for i := len(all) - 1; i >= 0 && len(result) < limit; i-- {
		if before != nil && !all[i].EvaluatedAt.Before(*before) {
			continue
		}
		cp := *all[i]
		cp.Recommendations = append([]string(nil), all[i].Recommendations...)
		result = append(result, &cp)
	}
	if len(result) == 0 {
		return nil, nil
	}
	return result, nil
}
