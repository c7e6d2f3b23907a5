package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RecordInput struct {
	ApplicationID string
	PetID         string
	Type          EntryType
	Actor         Actor
	Reason        string
	OccurredAt    time.Time // zero = now
}

// Record agrega una o más entradas en un solo append.
func (s *Service) Record(ctx context.Context, in ...RecordInput) ([]Entry, error) {
	if len(in) == 0 {
		return nil, nil
	}

	now := s.now()
	out := make([]Entry, 0, len(in))
	for _, r := range in {
		if strings.TrimSpace(r.ApplicationID) == "" || !r.Type.Valid() || r.Actor.Type == "" {
			return nil, ErrInvalidInput
		}
		at := r.OccurredAt
		if at.IsZero() {
			at = now
		}
		out = append(out, Entry{
			ID:            uuid.NewString(),
			ApplicationID: r.ApplicationID,
			PetID:         r.PetID,
			Type:          r.Type,
			Actor:         r.Actor,
			Reason:        strings.TrimSpace(r.Reason),
			OccurredAt:    at,
		})
	}

	if err := s.repo.Append(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) ListByApplication(ctx context.Context, applicationID string) ([]Entry, error) {
	applicationID = strings.TrimSpace(applicationID)
	if applicationID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByApplication(ctx, applicationID)
}
