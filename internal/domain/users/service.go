package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-adoption/internal/platform/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("profile not found")
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

// ProfileInput es el payload de PUT /me/profile.
type ProfileInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone,omitempty" validate:"max=40"`
}

func (in *ProfileInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

// SaveProfile crea o reemplaza el perfil del usuario. CreatedAt se conserva.
func (s *Service) SaveProfile(ctx context.Context, userID string, in ProfileInput) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrInvalidInput
	}
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Profile{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	now := s.now()
	p := Profile{
		ID:        userID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if current, err := s.repo.GetByID(ctx, userID); err == nil {
		p.CreatedAt = current.CreatedAt
	} else if !errors.Is(err, ErrNotFound) {
		return Profile{}, err
	}

	if err := s.repo.Upsert(ctx, p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Profile{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, userID)
}

// GetMany trae perfiles en lote; los ids sin perfil simplemente no aparecen.
func (s *Service) GetMany(ctx context.Context, ids []string) (map[string]Profile, error) {
	seen := map[string]struct{}{}
	clean := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		clean = append(clean, id)
	}
	if len(clean) == 0 {
		return map[string]Profile{}, nil
	}
	return s.repo.GetMany(ctx, clean)
}
