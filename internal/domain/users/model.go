package users

import "time"

// Profile es el perfil de contacto de un usuario autenticado (adoptante o refugio).
// La identidad la emite el IAM; aquí solo guardamos cómo contactarlo.
type Profile struct {
	ID    string
	Name  string
	Email string
	Phone string

	CreatedAt time.Time
	UpdatedAt time.Time
}
