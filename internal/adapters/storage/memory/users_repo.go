package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption/internal/domain/users"
)

type userRepo struct {
	mu   sync.RWMutex
	byID map[string]users.Profile
}

func NewUserRepo() users.Repository {
	return &userRepo{
		byID: make(map[string]users.Profile),
	}
}

func (r *userRepo) Upsert(ctx context.Context, p users.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("user id required")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (users.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return users.Profile{}, users.ErrNotFound
	}
	return p, nil
}

func (r *userRepo) GetMany(ctx context.Context, ids []string) (map[string]users.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]users.Profile, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}
