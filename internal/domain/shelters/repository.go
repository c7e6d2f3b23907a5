package shelters

import "context"

type Repository interface {
	Create(ctx context.Context, s Shelter) error
	Update(ctx context.Context, s Shelter) error
	GetByID(ctx context.Context, id string) (Shelter, error)
	GetByOwner(ctx context.Context, ownerUserID string) (Shelter, error)
}
