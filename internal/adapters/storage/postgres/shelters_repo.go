package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"pet-adoption/internal/domain/shelters"
)

type SheltersRepo struct {
	db *sql.DB
}

func NewSheltersRepo(db *sql.DB) *SheltersRepo {
	return &SheltersRepo{db: db}
}

var _ shelters.Repository = (*SheltersRepo)(nil)

const shelterColumns = `id, owner_user_id, name, email, phone, approved, created_at, updated_at`

func (r *SheltersRepo) Create(ctx context.Context, s shelters.Shelter) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO shelters (`+shelterColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		s.ID,
		s.OwnerUserID,
		s.Name,
		s.Email,
		s.Phone,
		s.Approved,
		s.CreatedAt,
		s.UpdatedAt,
	)
	// owner_user_id es UNIQUE: dos registros simultáneos del mismo usuario.
	if _, ok := constraintViolation(err, codeUniqueViolation); ok {
		return shelters.ErrConflict
	}
	return err
}

func (r *SheltersRepo) Update(ctx context.Context, s shelters.Shelter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE shelters
		SET
			name = $2,
			email = $3,
			phone = $4,
			approved = $5,
			updated_at = $6
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.Email,
		s.Phone,
		s.Approved,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return shelters.ErrNotFound
	}
	return nil
}

func (r *SheltersRepo) GetByID(ctx context.Context, id string) (shelters.Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE id = $1`, id)
}

func (r *SheltersRepo) GetByOwner(ctx context.Context, ownerUserID string) (shelters.Shelter, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	return r.getOne(ctx, `SELECT `+shelterColumns+` FROM shelters WHERE owner_user_id = $1`, ownerUserID)
}

func (r *SheltersRepo) getOne(ctx context.Context, q string, arg string) (shelters.Shelter, error) {
	var s shelters.Shelter
	err := r.db.QueryRowContext(ctx, q, arg).Scan(
		&s.ID,
		&s.OwnerUserID,
		&s.Name,
		&s.Email,
		&s.Phone,
		&s.Approved,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return shelters.Shelter{}, shelters.ErrNotFound
	}
	if err != nil {
		return shelters.Shelter{}, err
	}
	return s, nil
}
