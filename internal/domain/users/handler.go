package users

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
	r.Route("/me/profile", func(pr chi.Router) {
		pr.Get("/", getMyProfileHandler(svc))
		pr.Put("/", putMyProfileHandler(svc))
	})
}

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func getMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		p, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				respond.Error(w, http.StatusNotFound, "profile not found")
				return
			}
			logger.FromContext(r.Context(), nil).Error("users: get profile", map[string]any{"err": err})
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"profile": toProfileResponse(p)})
	}
}

func putMyProfileHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		var in ProfileInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		// Si el IAM ya trae email, es el default.
		if in.Email == "" {
			in.Email = claims.Email
		}

		p, err := svc.SaveProfile(r.Context(), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				respond.ValidationError(w, "validation failed", validate.Fields(err))
				return
			}
			logger.FromContext(r.Context(), nil).Error("users: save profile", map[string]any{"err": err})
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"profile": toProfileResponse(p)})
	}
}

func toProfileResponse(p Profile) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Phone:     p.Phone,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
