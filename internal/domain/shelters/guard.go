package shelters

import (
	"context"
	"errors"
	"strings"
)

// Guard es el Authorization Guard: decide si un usuario puede gestionar
// lo que pertenece a un refugio (mascotas y sus solicitudes).
type Guard struct {
	svc *Service
}

func NewGuard(svc *Service) *Guard {
	return &Guard{svc: svc}
}

// CanManage: el usuario es dueño del refugio y el refugio está aprobado.
// Cualquier otro caso (incluido refugio inexistente) es ErrForbidden.
func (g *Guard) CanManage(ctx context.Context, userID, shelterID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(shelterID) == "" {
		return ErrForbidden
	}

	sh, err := g.svc.GetByID(ctx, shelterID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if sh.OwnerUserID != userID || !sh.Approved {
		return ErrForbidden
	}
	return nil
}
