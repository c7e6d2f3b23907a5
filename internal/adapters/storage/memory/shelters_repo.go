package memory

import (
	"context"
	"errors"
	"strings"
	"sync"

	"pet-adoption/internal/domain/shelters"
)

type shelterRepo struct {
	mu      sync.RWMutex
	byID    map[string]shelters.Shelter
	byOwner map[string]string // owner -> shelter id
}

func NewShelterRepo() shelters.Repository {
	return &shelterRepo{
		byID:    make(map[string]shelters.Shelter),
		byOwner: make(map[string]string),
	}
}

func (r *shelterRepo) Create(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(s.ID) == "" {
		return errors.New("shelter id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("shelter already exists")
	}
	if _, exists := r.byOwner[s.OwnerUserID]; exists {
		return shelters.ErrConflict
	}
	r.byID[s.ID] = s
	r.byOwner[s.OwnerUserID] = s.ID
	return nil
}

func (r *shelterRepo) Update(ctx context.Context, s shelters.Shelter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[s.ID]
	if !exists {
		return shelters.ErrNotFound
	}
	s.OwnerUserID = cur.OwnerUserID
	r.byID[s.ID] = s
	return nil
}

func (r *shelterRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return s, nil
}

func (r *shelterRepo) GetByOwner(ctx context.Context, ownerUserID string) (shelters.Shelter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byOwner[ownerUserID]
	if !ok {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return r.byID[id], nil
}
