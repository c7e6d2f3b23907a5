package adoptions

import "strings"

// SubmitInput es el payload de POST /adoptions/submit.
// Los booleanos son punteros para distinguir "false" de "no enviado".
type SubmitInput struct {
	PetID     string `json:"petId" validate:"required"`
	AdopterID string `json:"adopterId,omitempty"`

	LivingArrangement struct {
		HomeType  string `json:"homeType" validate:"required,oneof=house apartment condo townhouse other"`
		HasYard   *bool  `json:"hasYard" validate:"required"`
		Ownership string `json:"ownership" validate:"required,oneof=own rent"`
	} `json:"livingArrangement"`

	HouseholdInfo struct {
		NumberOfAdults int   `json:"numberOfAdults" validate:"gte=1,lte=20"`
		HasChildren    *bool `json:"hasChildren" validate:"required"`
	} `json:"householdInfo"`

	PetExperience struct {
		HasOtherPets       *bool  `json:"hasOtherPets" validate:"required"`
		PreviousExperience string `json:"previousExperience,omitempty" validate:"max=2000"`
	} `json:"petExperience"`

	AdoptionDetails struct {
		Reason   string `json:"reason" validate:"required,max=2000"`
		Schedule string `json:"schedule" validate:"required,max=500"`
	} `json:"adoptionDetails"`

	AgreementAccepted *bool `json:"agreementAccepted" validate:"required,eq=true"`

	// Email de la sesión; fallback si el adoptante no tiene perfil.
	AdopterEmail string `json:"-"`
}

func (in *SubmitInput) normalize() {
	in.PetID = strings.TrimSpace(in.PetID)
	in.AdopterID = strings.TrimSpace(in.AdopterID)
	in.LivingArrangement.HomeType = strings.ToLower(strings.TrimSpace(in.LivingArrangement.HomeType))
	in.LivingArrangement.Ownership = strings.ToLower(strings.TrimSpace(in.LivingArrangement.Ownership))
	in.PetExperience.PreviousExperience = strings.TrimSpace(in.PetExperience.PreviousExperience)
	in.AdoptionDetails.Reason = strings.TrimSpace(in.AdoptionDetails.Reason)
	in.AdoptionDetails.Schedule = strings.TrimSpace(in.AdoptionDetails.Schedule)
}

// UpdateStatusInput es el payload de PATCH /adoptions/{id}/status.
type UpdateStatusInput struct {
	Status          string `json:"status" validate:"required,oneof=approved rejected"`
	RejectionReason string `json:"rejectionReason,omitempty" validate:"required_if=Status rejected,max=1000"`
}

func (in *UpdateStatusInput) normalize() {
	in.Status = strings.ToLower(strings.TrimSpace(in.Status))
	in.RejectionReason = strings.TrimSpace(in.RejectionReason)
}
