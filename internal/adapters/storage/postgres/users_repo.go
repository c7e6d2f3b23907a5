package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-adoption/internal/domain/users"
)

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

var _ users.Repository = (*UsersRepo)(nil)

func (r *UsersRepo) Upsert(ctx context.Context, p users.Profile) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_profiles (id, name, email, phone, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			phone = EXCLUDED.phone,
			updated_at = EXCLUDED.updated_at
	`,
		p.ID,
		p.Name,
		p.Email,
		p.Phone,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.Profile, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return users.Profile{}, users.ErrNotFound
	}

	var p users.Profile
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM user_profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return users.Profile{}, users.ErrNotFound
	}
	if err != nil {
		return users.Profile{}, err
	}
	return p, nil
}

func (r *UsersRepo) GetMany(ctx context.Context, ids []string) (map[string]users.Profile, error) {
	out := make(map[string]users.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, phone, created_at, updated_at
		FROM user_profiles
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var p users.Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}
