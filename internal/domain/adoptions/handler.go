package adoptions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption/internal/domain/history"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/adoptions", func(ar chi.Router) {
		ar.Post("/submit", submitHandler(svc))
		ar.Get("/user", listForAdopterHandler(svc))
		ar.Get("/shelter/applications", listForShelterHandler(svc))

		ar.Get("/{applicationID}", getApplicationHandler(svc))
		ar.Get("/{applicationID}/history", historyHandler(svc))
		ar.Patch("/{applicationID}/status", updateStatusHandler(svc))
	})
}

type livingArrangementResponse struct {
	HomeType  HomeType  `json:"homeType"`
	HasYard   bool      `json:"hasYard"`
	Ownership Ownership `json:"ownership"`
}

type householdInfoResponse struct {
	NumberOfAdults int  `json:"numberOfAdults"`
	HasChildren    bool `json:"hasChildren"`
}

type petExperienceResponse struct {
	HasOtherPets       bool   `json:"hasOtherPets"`
	PreviousExperience string `json:"previousExperience,omitempty"`
}

type adoptionDetailsResponse struct {
	Reason   string `json:"reason"`
	Schedule string `json:"schedule"`
}

type applicationResponse struct {
	ID                string                    `json:"id"`
	PetID             string                    `json:"petId"`
	AdopterID         string                    `json:"adopterId"`
	Status            Status                    `json:"status"`
	LivingArrangement livingArrangementResponse `json:"livingArrangement"`
	HouseholdInfo     householdInfoResponse     `json:"householdInfo"`
	PetExperience     petExperienceResponse     `json:"petExperience"`
	AdoptionDetails   adoptionDetailsResponse   `json:"adoptionDetails"`
	AgreementAccepted bool                      `json:"agreementAccepted"`
	RejectionReason   string                    `json:"rejectionReason,omitempty"`
	DecidedAt         *time.Time                `json:"decidedAt,omitempty"`
	CreatedAt         time.Time                 `json:"createdAt"`
	UpdatedAt         time.Time                 `json:"updatedAt"`
}

type petSummaryResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Species   string `json:"species,omitempty"`
	Breed     string `json:"breed,omitempty"`
	Status    string `json:"status,omitempty"`
	ShelterID string `json:"shelterId,omitempty"`
}

type personSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

type shelterSummaryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type shelterApplicationResponse struct {
	applicationResponse
	Pet     petSummaryResponse    `json:"pet"`
	Adopter personSummaryResponse `json:"adopter"`
}

type adopterApplicationResponse struct {
	applicationResponse
	Pet     petSummaryResponse     `json:"pet"`
	Shelter shelterSummaryResponse `json:"shelter"`
}

type historyEntryResponse struct {
	ID         string            `json:"id"`
	Type       history.EntryType `json:"type"`
	ActorType  history.ActorType `json:"actorType"`
	ActorID    string            `json:"actorId,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
}

// Sobres de respuesta: {success:true, ...}.

type applicationEnvelope struct {
	Success     bool                `json:"success"`
	Application applicationResponse `json:"application"`
}

type shelterApplicationsEnvelope struct {
	Success      bool                         `json:"success"`
	Count        int                          `json:"count"`
	Applications []shelterApplicationResponse `json:"applications"`
}

type adopterApplicationsEnvelope struct {
	Success      bool                         `json:"success"`
	Count        int                          `json:"count"`
	Applications []adopterApplicationResponse `json:"applications"`
}

type historyEnvelope struct {
	Success bool                   `json:"success"`
	Count   int                    `json:"count"`
	History []historyEntryResponse `json:"history"`
}

// submitHandler godoc
// @Summary Enviar solicitud de adopción
// @Description Crea una solicitud pending para la mascota. El adoptante es el usuario autenticado; si el body trae `adopterId` debe coincidir. Confirmación al adoptante y aviso al refugio se envían en segundo plano. Autenticación: `X-Debug-User-ID` (dev) o `Authorization: Bearer <token>` (prod).
// @Tags adoptions
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param payload body SubmitInput true "Solicitud; agreementAccepted debe ser true"
// @Success 201 {object} applicationEnvelope
// @Failure 400 {object} respond.ErrorBody "validación / mascota adoptada / solicitud pending duplicada"
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Failure 403 {object} respond.ErrorBody "adopterId no coincide con la sesión"
// @Failure 404 {object} respond.ErrorBody "pet not found"
// @Router /adoptions/submit [post]
func submitHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in SubmitInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		in.AdopterEmail = claims.Email

		app, err := svc.Submit(r.Context(), claims.UserID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		respond.Raw(w, http.StatusCreated, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
	}
}

// updateStatusHandler godoc
// @Summary Aprobar o rechazar una solicitud
// @Description Solo el dueño de un refugio aprobado que publica la mascota. Aprobar marca la mascota como Adopted y rechaza el resto de solicitudes pending de esa mascota. Rechazar exige `rejectionReason`.
// @Tags adoptions
// @Accept json
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param applicationID path string true "ID de la solicitud"
// @Param payload body UpdateStatusInput true "status: approved | rejected"
// @Success 200 {object} applicationEnvelope
// @Failure 400 {object} respond.ErrorBody "validación / mascota ya adoptada / solicitud ya decidida"
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Failure 403 {object} respond.ErrorBody "forbidden"
// @Failure 404 {object} respond.ErrorBody "application not found"
// @Router /adoptions/{applicationID}/status [patch]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in UpdateStatusInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		app, err := svc.UpdateStatus(r.Context(), claims.UserID, chi.URLParam(r, "applicationID"), in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		respond.Raw(w, http.StatusOK, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
	}
}

// listForShelterHandler godoc
// @Summary Listar solicitudes del refugio
// @Description Solicitudes de todas las mascotas del refugio aprobado del usuario, más nuevas primero, con mascota y adoptante.
// @Tags adoptions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} shelterApplicationsEnvelope
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Failure 403 {object} respond.ErrorBody "sin refugio aprobado"
// @Router /adoptions/shelter/applications [get]
func listForShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		views, err := svc.ListForShelter(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]shelterApplicationResponse, 0, len(views))
		for _, v := range views {
			out = append(out, shelterApplicationResponse{
				applicationResponse: toApplicationResponse(v.Application),
				Pet:                 toPetSummaryResponse(v.Pet),
				Adopter:             personSummaryResponse{ID: v.Adopter.ID, Name: v.Adopter.Name, Email: v.Adopter.Email},
			})
		}
		respond.Raw(w, http.StatusOK, shelterApplicationsEnvelope{Success: true, Count: len(out), Applications: out})
	}
}

// listForAdopterHandler godoc
// @Summary Listar mis solicitudes
// @Description Solicitudes del usuario autenticado, más nuevas primero, con mascota y refugio.
// @Tags adoptions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Success 200 {object} adopterApplicationsEnvelope
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Router /adoptions/user [get]
func listForAdopterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		views, err := svc.ListForAdopter(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]adopterApplicationResponse, 0, len(views))
		for _, v := range views {
			out = append(out, adopterApplicationResponse{
				applicationResponse: toApplicationResponse(v.Application),
				Pet:                 toPetSummaryResponse(v.Pet),
				Shelter: shelterSummaryResponse{
					ID:    v.Shelter.ID,
					Name:  v.Shelter.Name,
					Email: v.Shelter.Email,
					Phone: v.Shelter.Phone,
				},
			})
		}
		respond.Raw(w, http.StatusOK, adopterApplicationsEnvelope{Success: true, Count: len(out), Applications: out})
	}
}

// getApplicationHandler godoc
// @Summary Ver una solicitud
// @Description Visible para el adoptante, el refugio dueño de la mascota y admins.
// @Tags adoptions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} applicationEnvelope
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Failure 403 {object} respond.ErrorBody "forbidden"
// @Failure 404 {object} respond.ErrorBody "application not found"
// @Router /adoptions/{applicationID} [get]
func getApplicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		app, err := svc.Get(r.Context(), Viewer{UserID: claims.UserID, Admin: claims.IsAdmin()}, chi.URLParam(r, "applicationID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond.Raw(w, http.StatusOK, applicationEnvelope{Success: true, Application: toApplicationResponse(app)})
	}
}

// historyHandler godoc
// @Summary Historial de una solicitud
// @Description Transiciones en orden cronológico. Los rechazos en cascada figuran como AUTO_REJECTED por SYSTEM.
// @Tags adoptions
// @Produce json
// @Param X-Debug-User-ID header string false "Solo en modo dev, ID de usuario para depuración"
// @Param Authorization header string false "Bearer token en producción"
// @Param applicationID path string true "ID de la solicitud"
// @Success 200 {object} historyEnvelope
// @Failure 401 {object} respond.ErrorBody "unauthorized"
// @Failure 403 {object} respond.ErrorBody "forbidden"
// @Failure 404 {object} respond.ErrorBody "application not found"
// @Router /adoptions/{applicationID}/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		entries, err := svc.History(r.Context(), Viewer{UserID: claims.UserID, Admin: claims.IsAdmin()}, chi.URLParam(r, "applicationID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]historyEntryResponse, 0, len(entries))
		for _, e := range entries {
			out = append(out, historyEntryResponse{
				ID:         e.ID,
				Type:       e.Type,
				ActorType:  e.Actor.Type,
				ActorID:    e.Actor.ID,
				Reason:     e.Reason,
				OccurredAt: e.OccurredAt,
			})
		}
		respond.Raw(w, http.StatusOK, historyEnvelope{Success: true, Count: len(out), History: out})
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		respond.ValidationError(w, "validation failed", validate.Fields(err))
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, Message(err))
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInvalidState):
		respond.Error(w, http.StatusBadRequest, Message(err))
	default:
		logger.FromContext(r.Context(), nil).Error("adoptions: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toApplicationResponse(a Application) applicationResponse {
	return applicationResponse{
		ID:        a.ID,
		PetID:     a.PetID,
		AdopterID: a.AdopterID,
		Status:    a.Status,
		LivingArrangement: livingArrangementResponse{
			HomeType:  a.LivingArrangement.HomeType,
			HasYard:   a.LivingArrangement.HasYard,
			Ownership: a.LivingArrangement.Ownership,
		},
		HouseholdInfo: householdInfoResponse{
			NumberOfAdults: a.HouseholdInfo.NumberOfAdults,
			HasChildren:    a.HouseholdInfo.HasChildren,
		},
		PetExperience: petExperienceResponse{
			HasOtherPets:       a.PetExperience.HasOtherPets,
			PreviousExperience: a.PetExperience.PreviousExperience,
		},
		AdoptionDetails: adoptionDetailsResponse{
			Reason:   a.AdoptionDetails.Reason,
			Schedule: a.AdoptionDetails.Schedule,
		},
		AgreementAccepted: a.AgreementAccepted,
		RejectionReason:   a.RejectionReason,
		DecidedAt:         a.DecidedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func toPetSummaryResponse(p PetSummary) petSummaryResponse {
	return petSummaryResponse{
		ID:        p.ID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Status:    p.Status,
		ShelterID: p.ShelterID,
	}
}
