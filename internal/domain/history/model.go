package history

import "time"

type Actor struct {
	Type ActorType
	ID   string
}

// Entry es un registro append-only de una transición de una solicitud.
// Nunca se edita ni se borra.
type Entry struct {
	ID            string
	ApplicationID string
	PetID         string

	Type EntryType

	Actor  Actor
	Reason string

	OccurredAt time.Time
}
