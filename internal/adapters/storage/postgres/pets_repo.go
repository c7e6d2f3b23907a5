package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"pet-adoption/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

var _ pets.Repository = (*PetsRepo)(nil)

const petColumns = `
	id, shelter_id,
	name, species, breed, sex,
	birth_date, notes, status,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		p.ID,
		p.ShelterID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.Notes,
		string(p.Status),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if _, ok := constraintViolation(err, codeFKViolation); ok {
		return pets.ErrInvalidInput
	}
	return err
}

// Update no toca status ni shelter_id: el ledger solo se mueve con MarkAdopted.
func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $2,
			breed = $3,
			sex = $4,
			birth_date = $5,
			notes = $6,
			updated_at = $7
		WHERE id = $1
	`,
		p.ID,
		p.Name,
		p.Breed,
		string(p.Sex),
		toNullDate(p.BirthDate),
		p.Notes,
		p.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return pets.ErrNotFound
	}
	return nil
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return pets.Pet{}, pets.ErrNotFound
	}

	p, err := scanPet(r.db.QueryRowContext(ctx, `SELECT `+petColumns+` FROM pets WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return pets.Pet{}, pets.ErrNotFound
	}
	return p, err
}

func (r *PetsRepo) List(ctx context.Context, filter pets.ListFilter) ([]pets.Pet, error) {
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)

	if filter.ShelterID != "" {
		args = append(args, filter.ShelterID)
		where = append(where, "shelter_id = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		where = append(where, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []pets.Pet{}, nil
		}
		args = append(args, filter.IDs)
		where = append(where, "id = ANY($"+strconv.Itoa(len(args))+")")
	}

	q := `SELECT ` + petColumns + ` FROM pets`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// MarkAdopted: el UPDATE condicional es el compare-and-swap; 0 filas = perdió.
func (r *PetsRepo) MarkAdopted(ctx context.Context, id string, at time.Time) error {
	return markPetAdopted(ctx, r.db, id, at)
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func markPetAdopted(ctx context.Context, db execer, id string, at time.Time) error {
	res, err := db.ExecContext(ctx, `
		UPDATE pets
		SET status = 'Adopted', updated_at = $2
		WHERE id = $1 AND status = 'Available'
	`, id, at)
	if err != nil {
		return err
	}
	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return pets.ErrNotFound
	}
	return pets.ErrAlreadyAdopted
}

func scanPet(s scanner) (pets.Pet, error) {
	var (
		p       pets.Pet
		species string
		sex     string
		status  string
		bd      sql.NullTime
	)
	if err := s.Scan(
		&p.ID,
		&p.ShelterID,
		&p.Name,
		&species,
		&p.Breed,
		&sex,
		&bd,
		&p.Notes,
		&status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, err
	}
	p.Species = pets.Species(species)
	p.Sex = pets.Sex(sex)
	p.Status = pets.Status(status)
	// ojo: birth_date es date, pgx lo puede mapear a time.Time midnight UTC
	p.BirthDate = fromNullTime(bd)
	return p, nil
}
