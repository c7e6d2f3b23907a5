package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"pet-adoption/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

var _ history.Repository = (*HistoryRepo)(nil)

// Append inserta todas las entradas en una transacción: o entran todas o ninguna.
func (r *HistoryRepo) Append(ctx context.Context, entries []history.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO application_history (
			id, application_id, pet_id, type,
			actor_type, actor_id, reason, occurred_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx,
			e.ID,
			e.ApplicationID,
			e.PetID,
			string(e.Type),
			string(e.Actor.Type),
			e.Actor.ID,
			e.Reason,
			e.OccurredAt,
		); err != nil {
			return fmt.Errorf("postgres: append history %s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}

func (r *HistoryRepo) ListByApplication(ctx context.Context, applicationID string) ([]history.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, application_id, pet_id, type, actor_type, actor_id, reason, occurred_at
		FROM application_history
		WHERE application_id = $1
		ORDER BY occurred_at ASC, id ASC
	`, applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var (
			e         history.Entry
			typ       string
			actorType string
		)
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.PetID, &typ, &actorType, &e.Actor.ID, &e.Reason, &e.OccurredAt); err != nil {
			return nil, err
		}
		e.Type = history.EntryType(typ)
		e.Actor.Type = history.ActorType(actorType)
		out = append(out, e)
	}
	return out, rows.Err()
}
