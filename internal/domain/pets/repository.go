package pets

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	List(ctx context.Context, filter ListFilter) ([]Pet, error)

	// MarkAdopted es un compare-and-swap Available -> Adopted.
	// ErrAlreadyAdopted si otro request ganó; ErrNotFound si no existe.
	MarkAdopted(ctx context.Context, id string, at time.Time) error
}

type ListFilter struct {
	ShelterID string
	Status    Status
	IDs       []string
}
