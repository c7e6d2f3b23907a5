// Package logmail es el gateway de desarrollo: en vez de enviar, loguea.
package logmail

import (
	"context"

	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/ports/notify"
)

type Gateway struct {
	log logger.Logger
}

var _ notify.Gateway = (*Gateway)(nil)

func New(log logger.Logger) *Gateway {
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{log: log}
}

func (g *Gateway) SendApplicationConfirmation(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	g.emit(ctx, notify.KindApplicationConfirmation, to, app)
	return nil
}

func (g *Gateway) SendShelterNotification(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	g.emit(ctx, notify.KindShelterNewApplication, to, app)
	return nil
}

func (g *Gateway) SendApplicationStatus(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	g.emit(ctx, notify.KindApplicationStatus, to, app)
	return nil
}

func (g *Gateway) emit(ctx context.Context, kind notify.Kind, to string, app notify.ApplicationSnapshot) {
	fields := map[string]any{
		"kind":           string(kind),
		"to":             to,
		"application_id": app.ApplicationID,
		"pet_id":         app.PetID,
	}
	if app.Status != "" {
		fields["status"] = app.Status
	}
	if app.Reason != "" {
		fields["reason"] = app.Reason
	}
	logger.FromContext(ctx, g.log).Info("email (log only)", fields)
}
