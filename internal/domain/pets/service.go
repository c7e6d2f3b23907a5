package pets

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
	ErrInvalidInput   = errors.New("invalid input")
	ErrNotFound       = errors.New("pet not found")
	ErrAlreadyAdopted = errors.New("pet already adopted")
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

type CreateInput struct {
	Name      string     `json:"name" validate:"required,max=120"`
	Species   string     `json:"species" validate:"required,oneof=dog cat rabbit bird other"`
	Breed     string     `json:"breed,omitempty" validate:"max=120"`
	Sex       string     `json:"sex,omitempty" validate:"omitempty,oneof=male female unknown"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Notes     string     `json:"notes,omitempty" validate:"max=2000"`
}

func (in *CreateInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.ToLower(strings.TrimSpace(in.Species))
	in.Breed = strings.TrimSpace(in.Breed)
	in.Sex = strings.ToLower(strings.TrimSpace(in.Sex))
	in.Notes = strings.TrimSpace(in.Notes)
}

// Create publica una mascota del refugio. Siempre nace Available.
func (s *Service) Create(ctx context.Context, shelterID string, in CreateInput) (Pet, error) {
	if strings.TrimSpace(shelterID) == "" {
		return Pet{}, ErrInvalidInput
	}
	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Pet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	sex := Sex(in.Sex)
	if sex == "" {
		sex = SexUnknown
	}

	now := s.now()
	p := Pet{
		ID:        uuid.NewString(),
		ShelterID: shelterID,
		Name:      in.Name,
		Species:   Species(in.Species),
		Breed:     in.Breed,
		Sex:       sex,
		BirthDate: in.BirthDate,
		Notes:     in.Notes,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]Pet, error) {
	if filter.Status != "" && filter.Status != StatusAvailable && filter.Status != StatusAdopted {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) ListByShelter(ctx context.Context, shelterID string) ([]Pet, error) {
	shelterID = strings.TrimSpace(shelterID)
	if shelterID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, ListFilter{ShelterID: shelterID})
}

// GetMany devuelve las mascotas indexadas por id (las que no existen no aparecen).
func (s *Service) GetMany(ctx context.Context, ids []string) (map[string]Pet, error) {
	out := map[string]Pet{}
	if len(ids) == 0 {
		return out, nil
	}
	items, err := s.repo.List(ctx, ListFilter{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

// IsAvailable es la lectura del ledger.
func (s *Service) IsAvailable(ctx context.Context, id string) (bool, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return p.IsAvailable(), nil
}

// MarkAdopted es la escritura del ledger (CAS). No hay operación inversa.
func (s *Service) MarkAdopted(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrNotFound
	}
	return s.repo.MarkAdopted(ctx, id, s.now())
}

// PatchBirthDate distingue "no enviado" de "null" (limpiar).
type PatchBirthDate struct {
	Present bool
	Value   *time.Time
}

// UpdateProfileInput: punteros nil = no tocar. Status no es editable por aquí.
type UpdateProfileInput struct {
	Name      *string        `json:"name" validate:"omitnil,min=1,max=120"`
	Breed     *string        `json:"breed" validate:"omitnil,max=120"`
	Sex       *string        `json:"sex" validate:"omitnil,oneof=male female unknown"`
	BirthDate PatchBirthDate `json:"-"`
	Notes     *string        `json:"notes" validate:"omitnil,max=2000"`
}

func (in *UpdateProfileInput) normalize() {
	trim := func(p **string, lower bool) {
		if *p == nil {
			return
		}
		v := strings.TrimSpace(**p)
		if lower {
			v = strings.ToLower(v)
		}
		*p = &v
	}
	trim(&in.Name, false)
	trim(&in.Breed, false)
	trim(&in.Sex, true)
	trim(&in.Notes, false)
}

func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Pet{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Breed != nil {
		p.Breed = *in.Breed
	}
	if in.Sex != nil {
		p.Sex = Sex(*in.Sex)
	}
	if in.BirthDate.Present {
		p.BirthDate = in.BirthDate.Value
	}
	if in.Notes != nil {
		p.Notes = *in.Notes
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}
