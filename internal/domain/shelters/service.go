package shelters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/platform/validate"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("shelter not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("user already owns a shelter")
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

// RegisterInput es el payload de POST /shelters.
type RegisterInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Email string `json:"email" validate:"required,email,max=254"`
	Phone string `json:"phone,omitempty" validate:"max=40"`
}

func (in *RegisterInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
}

// Register crea el refugio del usuario, pendiente de aprobación por un admin.
// Un usuario tiene como máximo un refugio.
func (s *Service) Register(ctx context.Context, ownerUserID string, in RegisterInput) (Shelter, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return Shelter{}, ErrInvalidInput
	}
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Shelter{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if _, err := s.repo.GetByOwner(ctx, ownerUserID); err == nil {
		return Shelter{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Shelter{}, err
	}

	now := s.now()
	sh := Shelter{
		ID:          uuid.NewString(),
		OwnerUserID: ownerUserID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Approved:    false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

// Approve habilita el refugio. Idempotente.
func (s *Service) Approve(ctx context.Context, id string) (Shelter, error) {
	sh, err := s.GetByID(ctx, id)
	if err != nil {
		return Shelter{}, err
	}
	if sh.Approved {
		return sh, nil
	}
	sh.Approved = true
	sh.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, sh); err != nil {
		return Shelter{}, err
	}
	return sh, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Shelter, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Shelter{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// OwnedBy devuelve el refugio del usuario (ErrNotFound si no tiene).
func (s *Service) OwnedBy(ctx context.Context, userID string) (Shelter, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Shelter{}, ErrNotFound
	}
	return s.repo.GetByOwner(ctx, userID)
}

// ApprovedShelterOf exige que el usuario tenga un refugio aprobado.
func (s *Service) ApprovedShelterOf(ctx context.Context, userID string) (Shelter, error) {
	sh, err := s.OwnedBy(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Shelter{}, ErrForbidden
		}
		return Shelter{}, err
	}
	if !sh.Approved {
		return Shelter{}, ErrForbidden
	}
	return sh, nil
}
