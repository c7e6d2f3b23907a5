package notify

import (
	"context"
	"errors"
)

// Kind identifica el tipo de mensaje saliente.
type Kind string

const (
	KindApplicationConfirmation Kind = "application_confirmation"
	KindShelterNewApplication   Kind = "shelter_new_application"
	KindApplicationStatus       Kind = "application_status"
)

// ApplicationSnapshot es lo que el mensaje necesita saber de la solicitud.
type ApplicationSnapshot struct {
	ApplicationID string
	PetID         string
	PetName       string
	AdopterID     string
	AdopterName   string
	ShelterName   string
	Status        string
	Reason        string
}

// Gateway es el colaborador externo que entrega emails.
// Cada llamada puede fallar; el reintento lo decide quien la invoque.
type Gateway interface {
	SendApplicationConfirmation(ctx context.Context, to string, app ApplicationSnapshot) error
	SendShelterNotification(ctx context.Context, to string, app ApplicationSnapshot) error
	SendApplicationStatus(ctx context.Context, to string, app ApplicationSnapshot) error
}

// Message es una entrega pendiente en el outbox.
type Message struct {
	Kind     Kind
	To       string
	Snapshot ApplicationSnapshot
}

// Queue desacopla las notificaciones del request: Enqueue nunca bloquea
// por el envío y nunca devuelve error al caller.
type Queue interface {
	Enqueue(ctx context.Context, msgs ...Message)
}

// Deliver despacha un mensaje al método del gateway que corresponde.
func Deliver(ctx context.Context, gw Gateway, m Message) error {
	switch m.Kind {
	case KindApplicationConfirmation:
		return gw.SendApplicationConfirmation(ctx, m.To, m.Snapshot)
	case KindShelterNewApplication:
		return gw.SendShelterNotification(ctx, m.To, m.Snapshot)
	case KindApplicationStatus:
		return gw.SendApplicationStatus(ctx, m.To, m.Snapshot)
	default:
		return &UnknownKindError{Kind: m.Kind}
	}
}

type UnknownKindError struct {
	Kind Kind
}

func (e *UnknownKindError) Error() string {
	return "notify: unknown message kind " + string(e.Kind)
}

// Discard es la cola nula (modo sin notificaciones).
type Discard struct{}

func (Discard) Enqueue(context.Context, ...Message) {}

// PermanentError marca un fallo que no vale la pena reintentar
// (dirección inválida, payload rechazado, etc.).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var pe *PermanentError
	if errors.As(err, &pe) {
		return true
	}
	var uk *UnknownKindError
	return errors.As(err, &uk)
}
