package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"pet-adoption/internal/domain/history"
)

// historyRepo es append-only: no hay update ni delete.
type historyRepo struct {
	mu    sync.RWMutex
	byApp map[string][]history.Entry
}

func NewHistoryRepo() history.Repository {
	return &historyRepo{
		byApp: make(map[string][]history.Entry),
	}
}

func (r *historyRepo) Append(ctx context.Context, entries []history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		if e.ID == "" || e.ApplicationID == "" {
			return errors.New("history entry id and application id required")
		}
	}
	for _, e := range entries {
		r.byApp[e.ApplicationID] = append(r.byApp[e.ApplicationID], e)
	}
	return nil
}

func (r *historyRepo) ListByApplication(ctx context.Context, applicationID string) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := append([]history.Entry(nil), r.byApp[applicationID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.Before(out[j].OccurredAt)
	})
	if out == nil {
		out = []history.Entry{}
	}
	return out, nil
}
