// Package mailer implementa notify.Gateway contra una API HTTP de envío de emails.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/mail"
	"strings"

	"pet-adoption/internal/platform/httpclient"
	"pet-adoption/internal/platform/validate"
	"pet-adoption/internal/ports/notify"
)

type Config struct {
	BaseURL string
	APIKey  string
	From    string
	HTTP    httpclient.Options
}

type Gateway struct {
	http *httpclient.Client
	from string
}

var _ notify.Gateway = (*Gateway)(nil)

func New(cfg Config) (*Gateway, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("mailer: base url is required")
	}
	// From puede venir como "Nombre <addr>".
	from, err := mail.ParseAddress(cfg.From)
	if err != nil {
		return nil, fmt.Errorf("mailer: invalid from address: %w", err)
	}

	opts := cfg.HTTP
	opts.BaseURL = cfg.BaseURL
	if opts.Headers == nil {
		opts.Headers = map[string]string{}
	}
	if cfg.APIKey != "" {
		opts.Headers["Authorization"] = "Bearer " + cfg.APIKey
	}

	c, err := httpclient.New(opts)
	if err != nil {
		return nil, fmt.Errorf("mailer: %w", err)
	}
	return &Gateway{http: c, from: from.String()}, nil
}

type sendRequest struct {
	From     string            `json:"from"`
	To       string            `json:"to"`
	Subject  string            `json:"subject"`
	Text     string            `json:"text"`
	Template string            `json:"template"`
	Tags     map[string]string `json:"tags,omitempty"`
}

func (g *Gateway) SendApplicationConfirmation(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	return g.send(ctx, to, notify.KindApplicationConfirmation,
		fmt.Sprintf("We received your application for %s", orDefault(app.PetName, "your pet")),
		fmt.Sprintf("Hi %s, your application %s for %s at %s is now pending review.",
			orDefault(app.AdopterName, "there"), app.ApplicationID, orDefault(app.PetName, "the pet"), orDefault(app.ShelterName, "the shelter")),
		app)
}

func (g *Gateway) SendShelterNotification(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	return g.send(ctx, to, notify.KindShelterNewApplication,
		fmt.Sprintf("New adoption application for %s", orDefault(app.PetName, "one of your pets")),
		fmt.Sprintf("%s submitted application %s for %s.",
			orDefault(app.AdopterName, "An adopter"), app.ApplicationID, orDefault(app.PetName, "a pet")),
		app)
}

func (g *Gateway) SendApplicationStatus(ctx context.Context, to string, app notify.ApplicationSnapshot) error {
	body := fmt.Sprintf("Your application %s for %s is now %s.", app.ApplicationID, orDefault(app.PetName, "the pet"), app.Status)
	if app.Reason != "" {
		body += " Reason: " + app.Reason
	}
	return g.send(ctx, to, notify.KindApplicationStatus,
		fmt.Sprintf("Your application for %s was %s", orDefault(app.PetName, "a pet"), app.Status),
		body, app)
}

func (g *Gateway) send(ctx context.Context, to string, kind notify.Kind, subject, text string, app notify.ApplicationSnapshot) error {
	to = strings.TrimSpace(to)
	if err := validate.Var("to", to, "required,email"); err != nil {
		return notify.Permanent(fmt.Errorf("mailer: invalid recipient %q: %w", to, err))
	}

	req := sendRequest{
		From:     g.from,
		To:       to,
		Subject:  subject,
		Text:     text,
		Template: string(kind),
		Tags: map[string]string{
			"application_id": app.ApplicationID,
			"pet_id":         app.PetID,
		},
	}

	err := g.http.DoJSON(ctx, http.MethodPost, "/v1/messages", nil, req, nil)
	if err == nil {
		return nil
	}
	if httpclient.IsRetryable(err) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("mailer: send %s: %w", kind, err)
	}
	return notify.Permanent(fmt.Errorf("mailer: send %s: %w", kind, err))
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
