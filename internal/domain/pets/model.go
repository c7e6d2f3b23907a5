package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, rabbit, bird, other
type Species string

const (
	SpeciesDog    Species = "dog"
	SpeciesCat    Species = "cat"
	SpeciesRabbit Species = "rabbit"
	SpeciesBird   Species = "bird"
	SpeciesOther  Species = "other"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Status es el ledger de disponibilidad. Solo el workflow de adopción lo cambia,
// y solo en una dirección: Available -> Adopted.
type Status string

const (
	StatusAvailable Status = "Available"
	StatusAdopted   Status = "Adopted"
)

// Pet representa una mascota publicada por un refugio.
type Pet struct {
	ID        string
	ShelterID string

	Name    string
	Species Species
	Breed   string
	Sex     Sex

	BirthDate *time.Time
	Notes     string

	Status Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) IsAvailable() bool { return p.Status == StatusAvailable }
