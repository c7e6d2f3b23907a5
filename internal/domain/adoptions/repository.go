package adoptions

import (
	"context"
	"time"
)

// Repository persiste solicitudes. Las escrituras son atómicas en el storage:
// las implementaciones devuelven los sentinels del paquete, nunca errores del driver
// para los casos de negocio.
type Repository interface {
	// Submit inserta una solicitud pending. ErrDuplicatePending si ya hay una pending
	// para (pet, adopter); ErrPetAdopted si la mascota dejó de estar disponible.
	Submit(ctx context.Context, app Application) error

	GetByID(ctx context.Context, id string) (Application, error)
	// FindPending devuelve la solicitud pending de (pet, adopter) o ErrNotFound.
	FindPending(ctx context.Context, petID, adopterID string) (Application, error)
	ListByPets(ctx context.Context, petIDs []string) ([]Application, error)
	ListByAdopter(ctx context.Context, adopterID string) ([]Application, error)

	// Approve aplica en una sola unidad: mascota Available -> Adopted,
	// solicitud pending -> approved y el resto de pending de la mascota -> rejected.
	// Si cualquiera de los compare-and-swap pierde, no se escribe nada.
	Approve(ctx context.Context, in ApproveInput) (ApproveResult, error)

	// Reject es un compare-and-swap pending -> rejected.
	Reject(ctx context.Context, id, reason string, at time.Time) (Application, error)
}

type ApproveInput struct {
	ApplicationID string
	PetID         string
	// Motivo para las hermanas rechazadas.
	SiblingReason string
	At            time.Time
}

type ApproveResult struct {
	Approved Application
	Rejected []Application
}

// PetLedger es la vista mínima del ledger de mascotas que necesita el
// storage en memoria para que Submit/Approve sean atómicos.
type PetLedger interface {
	IsAvailable(ctx context.Context, petID string) (bool, error)
	MarkAdopted(ctx context.Context, petID string) error
}
