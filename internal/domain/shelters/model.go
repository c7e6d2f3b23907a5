package shelters

import "time"

// Shelter es la cuenta de un refugio. Solo un refugio aprobado puede publicar
// mascotas y gestionar solicitudes.
type Shelter struct {
	ID          string
	OwnerUserID string

	Name  string
	Email string
	Phone string

	Approved bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
