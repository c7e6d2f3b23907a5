package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-adoption/internal/domain/pets"
)

type petRepo struct {
	mu   sync.RWMutex
	byID map[string]pets.Pet
}

func NewPetRepo() pets.Repository {
	return &petRepo{
		byID: make(map[string]pets.Pet),
	}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.byID[p.ID] = p
	return nil
}

// Update reemplaza el perfil pero conserva el status: ese solo lo mueve MarkAdopted.
func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, exists := r.byID[p.ID]
	if !exists {
		return pets.ErrNotFound
	}
	p.Status = cur.Status
	p.ShelterID = cur.ShelterID
	p.CreatedAt = cur.CreatedAt
	r.byID[p.ID] = p
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, nil
}

func (r *petRepo) List(ctx context.Context, filter pets.ListFilter) ([]pets.Pet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids map[string]struct{}
	if filter.IDs != nil {
		ids = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			ids[id] = struct{}{}
		}
	}

	out := make([]pets.Pet, 0)
	for _, p := range r.byID {
		if filter.ShelterID != "" && p.ShelterID != filter.ShelterID {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if ids != nil {
			if _, ok := ids[p.ID]; !ok {
				continue
			}
		}
		out = append(out, p)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *petRepo) MarkAdopted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byID[id]
	if !ok {
		return pets.ErrNotFound
	}
	if p.Status != pets.StatusAvailable {
		return pets.ErrAlreadyAdopted
	}
	p.Status = pets.StatusAdopted
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}
