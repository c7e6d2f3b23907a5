package adoptions

import "time"

// Status de una solicitud. approved y rejected son terminales.
// @Enum pending, approved, rejected
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// @Enum house, apartment, condo, townhouse, other
type HomeType string

const (
	HomeHouse     HomeType = "house"
	HomeApartment HomeType = "apartment"
	HomeCondo     HomeType = "condo"
	HomeTownhouse HomeType = "townhouse"
	HomeOther     HomeType = "other"
)

// @Enum own, rent
type Ownership string

const (
	OwnershipOwn  Ownership = "own"
	OwnershipRent Ownership = "rent"
)

// SiblingRejectionReason es el motivo que reciben las demás solicitudes
// pendientes cuando se aprueba una para la misma mascota.
const SiblingRejectionReason = "Another applicant was selected for this pet"

type LivingArrangement struct {
	HomeType  HomeType
	HasYard   bool
	Ownership Ownership
}

type HouseholdInfo struct {
	NumberOfAdults int
	HasChildren    bool
}

type PetExperience struct {
	HasOtherPets       bool
	PreviousExperience string
}

type AdoptionDetails struct {
	Reason   string
	Schedule string
}

// Application es una solicitud de adopción de un adoptante para una mascota.
// AgreementAccepted es siempre true (se exige al crearla) y no cambia.
type Application struct {
	ID        string
	PetID     string
	AdopterID string

	Status Status

	LivingArrangement LivingArrangement
	HouseholdInfo     HouseholdInfo
	PetExperience     PetExperience
	AdoptionDetails   AdoptionDetails

	AgreementAccepted bool

	RejectionReason string
	DecidedAt       *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a Application) IsPending() bool { return a.Status == StatusPending }

// Vistas para los listados (solicitud + resúmenes unidos).

type PetSummary struct {
	ID        string
	Name      string
	Species   string
	Breed     string
	Status    string
	ShelterID string
}

type PersonSummary struct {
	ID    string
	Name  string
	Email string
}

type ShelterSummary struct {
	ID    string
	Name  string
	Email string
	Phone string
}

type ShelterView struct {
	Application Application
	Pet         PetSummary
	Adopter     PersonSummary
}

type AdopterView struct {
	Application Application
	Pet         PetSummary
	Shelter     ShelterSummary
}
