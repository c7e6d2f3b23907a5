package shelters

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/shelters", func(sr chi.Router) {
		sr.Post("/", registerShelterHandler(svc))
		sr.Get("/{shelterID}", getShelterHandler(svc))

		// Solo admin
		sr.Post("/{shelterID}/approve", approveShelterHandler(svc))
	})

	r.Get("/me/shelter", myShelterHandler(svc))
}

type shelterResponse struct {
	ID          string    `json:"id"`
	OwnerUserID string    `json:"ownerUserId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Approved    bool      `json:"approved"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func registerShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in RegisterInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		sh, err := svc.Register(r.Context(), claims.UserID, in)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"shelter": toShelterResponse(sh)})
	}
}

func getShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sh, err := svc.GetByID(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"shelter": toShelterResponse(sh)})
	}
}

func approveShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !claims.IsAdmin() {
			respond.Error(w, http.StatusForbidden, "forbidden")
			return
		}

		sh, err := svc.Approve(r.Context(), chi.URLParam(r, "shelterID"))
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"shelter": toShelterResponse(sh)})
	}
}

func myShelterHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		sh, err := svc.OwnedBy(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"shelter": toShelterResponse(sh)})
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.ValidationError(w, "validation failed", validate.Fields(err))
	case errors.Is(err, ErrConflict):
		respond.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "shelter not found")
	case errors.Is(err, ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	default:
		logger.FromContext(r.Context(), nil).Error("shelters: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toShelterResponse(s Shelter) shelterResponse {
	return shelterResponse{
		ID:          s.ID,
		OwnerUserID: s.OwnerUserID,
		Name:        s.Name,
		Email:       s.Email,
		Phone:       s.Phone,
		Approved:    s.Approved,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
