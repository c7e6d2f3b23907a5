package users

import "context"

type Repository interface {
	Upsert(ctx context.Context, p Profile) error
	GetByID(ctx context.Context, id string) (Profile, error)
	GetMany(ctx context.Context, ids []string) (map[string]Profile, error)
}
