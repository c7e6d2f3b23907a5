package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

// AdoptionsRepo: las reglas de carrera viven en SQL.
//   - una pending por (pet, adopter): índice único parcial
//   - submit solo si la mascota sigue Available (FOR SHARE bloquea contra la aprobación)
//   - aprobar = CAS de mascota + CAS de solicitud + rechazo de hermanas, en una transacción
type AdoptionsRepo struct {
	db *sql.DB
}

func NewAdoptionsRepo(db *sql.DB) *AdoptionsRepo {
	return &AdoptionsRepo{db: db}
}

var _ adoptions.Repository = (*AdoptionsRepo)(nil)

const applicationColumns = `
	id, pet_id, adopter_id, status,
	home_type, has_yard, ownership,
	number_of_adults, has_children,
	has_other_pets, previous_experience,
	reason, schedule,
	agreement_accepted, rejection_reason, decided_at,
	created_at, updated_at`

func (r *AdoptionsRepo) Submit(ctx context.Context, a adoptions.Application) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO adoption_applications (`+applicationColumns+`)
		SELECT
			$1, $2, $3, $4,
			$5, $6::boolean, $7,
			$8::integer, $9::boolean,
			$10::boolean, $11,
			$12, $13,
			$14::boolean, $15, $16::timestamptz,
			$17::timestamptz, $18::timestamptz
		WHERE EXISTS (
			SELECT 1 FROM pets WHERE id = $2 AND status = 'Available' FOR SHARE
		)
	`,
		a.ID,
		a.PetID,
		a.AdopterID,
		string(a.Status),
		string(a.LivingArrangement.HomeType),
		a.LivingArrangement.HasYard,
		string(a.LivingArrangement.Ownership),
		a.HouseholdInfo.NumberOfAdults,
		a.HouseholdInfo.HasChildren,
		a.PetExperience.HasOtherPets,
		a.PetExperience.PreviousExperience,
		a.AdoptionDetails.Reason,
		a.AdoptionDetails.Schedule,
		a.AgreementAccepted,
		a.RejectionReason,
		toNullTime(a.DecidedAt),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if name, ok := constraintViolation(err, codeUniqueViolation); ok && name == "adoption_applications_one_pending" {
			return adoptions.ErrDuplicatePending
		}
		if _, ok := constraintViolation(err, codeFKViolation); ok {
			return adoptions.ErrPetNotFound
		}
		return err
	}

	n, err := rowsAffected(res)
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// 0 filas: la mascota no existe o ya no está Available.
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)`, a.PetID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return adoptions.ErrPetNotFound
	}
	return adoptions.ErrPetAdopted
}

func (r *AdoptionsRepo) GetByID(ctx context.Context, id string) (adoptions.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	a, err := scanApplication(r.db.QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM adoption_applications WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	return a, err
}

func (r *AdoptionsRepo) FindPending(ctx context.Context, petID, adopterID string) (adoptions.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications
		WHERE pet_id = $1 AND adopter_id = $2 AND status = 'pending'
	`, petID, adopterID))
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, adoptions.ErrNotFound
	}
	return a, err
}

func (r *AdoptionsRepo) ListByPets(ctx context.Context, petIDs []string) ([]adoptions.Application, error) {
	if len(petIDs) == 0 {
		return []adoptions.Application{}, nil
	}
	return r.list(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications
		WHERE pet_id = ANY($1)
		ORDER BY created_at DESC, id DESC
	`, petIDs)
}

func (r *AdoptionsRepo) ListByAdopter(ctx context.Context, adopterID string) ([]adoptions.Application, error) {
	return r.list(ctx, `
		SELECT `+applicationColumns+`
		FROM adoption_applications
		WHERE adopter_id = $1
		ORDER BY created_at DESC, id DESC
	`, adopterID)
}

func (r *AdoptionsRepo) Approve(ctx context.Context, in adoptions.ApproveInput) (adoptions.ApproveResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return adoptions.ApproveResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// 1) Ledger: Available -> Adopted. Si otro ya ganó, se corta acá.
	if err := markPetAdopted(ctx, tx, in.PetID, in.At); err != nil {
		switch {
		case errors.Is(err, pets.ErrAlreadyAdopted):
			return adoptions.ApproveResult{}, adoptions.ErrPetAdopted
		case errors.Is(err, pets.ErrNotFound):
			return adoptions.ApproveResult{}, adoptions.ErrPetNotFound
		default:
			return adoptions.ApproveResult{}, err
		}
	}

	// 2) Solicitud objetivo: pending -> approved.
	approved, err := scanApplication(tx.QueryRowContext(ctx, `
		UPDATE adoption_applications
		SET status = 'approved', rejection_reason = '', decided_at = $3, updated_at = $3
		WHERE id = $1 AND pet_id = $2 AND status = 'pending'
		RETURNING `+applicationColumns,
		in.ApplicationID, in.PetID, in.At,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.ApproveResult{}, r.decidedOrMissing(ctx, tx, in.ApplicationID)
	}
	if err != nil {
		return adoptions.ApproveResult{}, err
	}

	// 3) Hermanas pending -> rejected.
	rows, err := tx.QueryContext(ctx, `
		UPDATE adoption_applications
		SET status = 'rejected', rejection_reason = $3, decided_at = $4, updated_at = $4
		WHERE pet_id = $1 AND id <> $2 AND status = 'pending'
		RETURNING `+applicationColumns,
		in.PetID, in.ApplicationID, in.SiblingReason, in.At,
	)
	if err != nil {
		return adoptions.ApproveResult{}, err
	}
	rejected, err := collectApplications(rows)
	if err != nil {
		return adoptions.ApproveResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return adoptions.ApproveResult{}, fmt.Errorf("postgres: commit approval: %w", err)
	}
	return adoptions.ApproveResult{Approved: approved, Rejected: rejected}, nil
}

func (r *AdoptionsRepo) Reject(ctx context.Context, id, reason string, at time.Time) (adoptions.Application, error) {
	a, err := scanApplication(r.db.QueryRowContext(ctx, `
		UPDATE adoption_applications
		SET status = 'rejected', rejection_reason = $2, decided_at = $3, updated_at = $3
		WHERE id = $1 AND status = 'pending'
		RETURNING `+applicationColumns,
		id, reason, at,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return adoptions.Application{}, r.decidedOrMissing(ctx, r.db, id)
	}
	return a, err
}

func (r *AdoptionsRepo) decidedOrMissing(ctx context.Context, db execer, id string) error {
	var exists bool
	if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM adoption_applications WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return adoptions.ErrNotFound
	}
	return adoptions.ErrAlreadyDecided
}

func (r *AdoptionsRepo) list(ctx context.Context, q string, args ...any) ([]adoptions.Application, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectApplications(rows)
}

func collectApplications(rows *sql.Rows) ([]adoptions.Application, error) {
	defer rows.Close()

	out := make([]adoptions.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanApplication(s scanner) (adoptions.Application, error) {
	var (
		a         adoptions.Application
		status    string
		homeType  string
		ownership string
		decidedAt sql.NullTime
	)
	if err := s.Scan(
		&a.ID,
		&a.PetID,
		&a.AdopterID,
		&status,
		&homeType,
		&a.LivingArrangement.HasYard,
		&ownership,
		&a.HouseholdInfo.NumberOfAdults,
		&a.HouseholdInfo.HasChildren,
		&a.PetExperience.HasOtherPets,
		&a.PetExperience.PreviousExperience,
		&a.AdoptionDetails.Reason,
		&a.AdoptionDetails.Schedule,
		&a.AgreementAccepted,
		&a.RejectionReason,
		&decidedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return adoptions.Application{}, err
	}
	a.Status = adoptions.Status(status)
	a.LivingArrangement.HomeType = adoptions.HomeType(homeType)
	a.LivingArrangement.Ownership = adoptions.Ownership(ownership)
	a.DecidedAt = fromNullTime(decidedAt)
	return a, nil
}
