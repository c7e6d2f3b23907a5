package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

// adoptionRepo serializa todas las escrituras bajo un solo lock, así el
// check de duplicado/disponibilidad y el write no se pueden intercalar con
// otra aprobación. El ledger de mascotas solo se mueve desde Approve.
type adoptionRepo struct {
	mu     sync.RWMutex
	byID   map[string]adoptions.Application
	ledger adoptions.PetLedger
}

func NewAdoptionRepo(ledger adoptions.PetLedger) adoptions.Repository {
	return &adoptionRepo{
		byID:   make(map[string]adoptions.Application),
		ledger: ledger,
	}
}

func (r *adoptionRepo) Submit(ctx context.Context, app adoptions.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(app.ID) == "" {
		return errors.New("application id required")
	}
	if _, exists := r.byID[app.ID]; exists {
		return errors.New("application already exists")
	}

	available, err := r.ledger.IsAvailable(ctx, app.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return adoptions.ErrPetNotFound
		}
		return err
	}
	if !available {
		return adoptions.ErrPetAdopted
	}

	for _, a := range r.byID {
		if a.PetID == app.PetID && a.AdopterID == app.AdopterID && a.IsPending() {
			return adoptions.ErrDuplicatePending
		}
	}

	r.byID[app.ID] = app
	return nil
}

func (r *adoptionRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	return a, nil
}

func (r *adoptionRepo) FindPending(ctx context.Context, petID, adopterID string) (adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byID {
		if a.PetID == petID && a.AdopterID == adopterID && a.IsPending() {
			return a, nil
		}
	}
	return adoptions.Application{}, adoptions.ErrNotFound
}

func (r *adoptionRepo) ListByPets(ctx context.Context, petIDs []string) ([]adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	want := make(map[string]struct{}, len(petIDs))
	for _, id := range petIDs {
		want[id] = struct{}{}
	}

	out := make([]adoptions.Application, 0)
	for _, a := range r.byID {
		if _, ok := want[a.PetID]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *adoptionRepo) ListByAdopter(ctx context.Context, adopterID string) ([]adoptions.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adoptions.Application, 0)
	for _, a := range r.byID {
		if a.AdopterID == adopterID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *adoptionRepo) Approve(ctx context.Context, in adoptions.ApproveInput) (adoptions.ApproveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	target, ok := r.byID[in.ApplicationID]
	if !ok || target.PetID != in.PetID {
		return adoptions.ApproveResult{}, adoptions.ErrNotFound
	}
	if !target.IsPending() {
		return adoptions.ApproveResult{}, adoptions.ErrAlreadyDecided
	}

	// Primero el ledger: si otra aprobación ya ganó, no se toca ninguna solicitud.
	if err := r.ledger.MarkAdopted(ctx, in.PetID); err != nil {
		switch {
		case errors.Is(err, pets.ErrAlreadyAdopted):
			return adoptions.ApproveResult{}, adoptions.ErrPetAdopted
		case errors.Is(err, pets.ErrNotFound):
			return adoptions.ApproveResult{}, adoptions.ErrPetNotFound
		default:
			return adoptions.ApproveResult{}, err
		}
	}

	res := adoptions.ApproveResult{Approved: decide(target, adoptions.StatusApproved, "", in.At)}
	r.byID[target.ID] = res.Approved

	for id, a := range r.byID {
		if id == target.ID || a.PetID != in.PetID || !a.IsPending() {
			continue
		}
		a = decide(a, adoptions.StatusRejected, in.SiblingReason, in.At)
		r.byID[id] = a
		res.Rejected = append(res.Rejected, a)
	}
	return res, nil
}

func (r *adoptionRepo) Reject(ctx context.Context, id, reason string, at time.Time) (adoptions.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	if !a.IsPending() {
		return adoptions.Application{}, adoptions.ErrAlreadyDecided
	}
	a = decide(a, adoptions.StatusRejected, reason, at)
	r.byID[id] = a
	return a, nil
}

func decide(a adoptions.Application, status adoptions.Status, reason string, at time.Time) adoptions.Application {
	a.Status = status
	a.RejectionReason = reason
	decided := at
	a.DecidedAt = &decided
	a.UpdatedAt = at
	return a
}
