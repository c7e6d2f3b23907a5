package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-adoption/internal/domain/shelters"
	"pet-adoption/internal/middleware"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/respond"
	"pet-adoption/internal/platform/validate"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, sheltersSvc *shelters.Service, guard *shelters.Guard) {
	r.Route("/pets", func(pr chi.Router) {
		// Publicar mascota (dueño de un refugio aprobado)
		pr.Post("/", createPetHandler(svc, sheltersSvc))
		pr.Get("/", listPetsHandler(svc))

		pr.Get("/{petID}", getPetHandler(svc))

		// Editar perfil (solo el refugio dueño). El status no se edita aquí.
		pr.Patch("/{petID}", updatePetHandler(svc, guard))
	})
}

type createPetRequest struct {
	Name      string `json:"name"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	Sex       string `json:"sex"`
	BirthDate string `json:"birthDate"` // YYYY-MM-DD opcional
	Notes     string `json:"notes"`
}

type updatePetRequest struct {
	Name  *string `json:"name"`
	Breed *string `json:"breed"`
	Sex   *string `json:"sex"`
	Notes *string `json:"notes"`
}

type petResponse struct {
	ID        string     `json:"id"`
	ShelterID string     `json:"shelterId"`
	Name      string     `json:"name"`
	Species   Species    `json:"species"`
	Breed     string     `json:"breed"`
	Sex       Sex        `json:"sex"`
	BirthDate *time.Time `json:"birthDate,omitempty"`
	Notes     string     `json:"notes"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func createPetHandler(svc *Service, sheltersSvc *shelters.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		sh, err := sheltersSvc.ApprovedShelterOf(r.Context(), claims.UserID)
		if err != nil {
			writePetError(w, r, err)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		var bd *time.Time
		if strings.TrimSpace(req.BirthDate) != "" {
			t, err := time.Parse("2006-01-02", req.BirthDate)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
				return
			}
			bd = &t
		}

		p, err := svc.Create(r.Context(), sh.ID, CreateInput{
			Name:      req.Name,
			Species:   req.Species,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Notes:     req.Notes,
		})
		if err != nil {
			writePetError(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, map[string]any{"pet": toPetResponse(p)})
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	// Catálogo público: ?shelter_id=&status=Available|Adopted
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		items, err := svc.List(r.Context(), ListFilter{
			ShelterID: strings.TrimSpace(q.Get("shelter_id")),
			Status:    Status(strings.TrimSpace(q.Get("status"))),
		})
		if err != nil {
			writePetError(w, r, err)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		respond.JSON(w, http.StatusOK, map[string]any{"count": len(out), "pets": out})
	}
}

func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writePetError(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]any{"pet": toPetResponse(p)})
	}
}

func updatePetHandler(svc *Service, guard *shelters.Guard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.RequireClaims(r)
		if !ok {
			respond.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		petID := chi.URLParam(r, "petID")
		current, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			writePetError(w, r, err)
			return
		}
		if err := guard.CanManage(r.Context(), claims.UserID, current.ShelterID); err != nil {
			writePetError(w, r, err)
			return
		}

		// Para soportar birthDate: null necesitamos detectar presencia del campo.
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}
		if _, ok := raw["status"]; ok {
			respond.Error(w, http.StatusBadRequest, "status is managed by the adoption workflow")
			return
		}

		var req updatePetRequest
		b, _ := json.Marshal(raw)
		if err := json.Unmarshal(b, &req); err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid json")
			return
		}

		bd := PatchBirthDate{}
		if v, exists := raw["birthDate"]; exists {
			bd.Present = true
			if string(v) != "null" {
				var s string
				if err := json.Unmarshal(v, &s); err != nil {
					respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD or null")
					return
				}
				t, err := time.Parse("2006-01-02", s)
				if err != nil {
					respond.Error(w, http.StatusBadRequest, "birthDate must be YYYY-MM-DD or null")
					return
				}
				bd.Value = &t
			}
		}

		updated, err := svc.UpdateProfile(r.Context(), petID, UpdateProfileInput{
			Name:      req.Name,
			Breed:     req.Breed,
			Sex:       req.Sex,
			BirthDate: bd,
			Notes:     req.Notes,
		})
		if err != nil {
			writePetError(w, r, err)
			return
		}

		respond.JSON(w, http.StatusOK, map[string]any{"pet": toPetResponse(updated)})
	}
}

func writePetError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.ValidationError(w, "invalid pet data", validate.Fields(err))
	case errors.Is(err, ErrNotFound):
		respond.Error(w, http.StatusNotFound, "pet not found")
	case errors.Is(err, shelters.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	default:
		logger.FromContext(r.Context(), nil).Error("pets: unexpected error", map[string]any{"err": err})
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:        p.ID,
		ShelterID: p.ShelterID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Sex:       p.Sex,
		BirthDate: p.BirthDate,
		Notes:     p.Notes,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
