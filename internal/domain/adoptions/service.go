package adoptions

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-adoption/internal/domain/history"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/shelters"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/platform/logger"
	"pet-adoption/internal/platform/metrics"
	"pet-adoption/internal/platform/validate"
	"pet-adoption/internal/ports/notify"
)

// Deps son los colaboradores del workflow.
type Deps struct {
	Pets     *pets.Service
	Shelters *shelters.Service
	Guard    *shelters.Guard
	Users    *users.Service
	History  *history.Service
	Outbox   notify.Queue
	Logger   logger.Logger
}

type Service struct {
	repo     Repository
	pets     *pets.Service
	shelters *shelters.Service
	guard    *shelters.Guard
	users    *users.Service
	history  *history.Service
	outbox   notify.Queue
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, deps Deps) *Service {
	s := &Service{
		repo:     repo,
		pets:     deps.Pets,
		shelters: deps.Shelters,
		guard:    deps.Guard,
		users:    deps.Users,
		history:  deps.History,
		outbox:   deps.Outbox,
		log:      deps.Logger,
		now:      time.Now,
	}
	if s.outbox == nil {
		s.outbox = notify.Discard{}
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.guard == nil && s.shelters != nil {
		s.guard = shelters.NewGuard(s.shelters)
	}
	return s
}

// Viewer es quien lee una solicitud puntual.
type Viewer struct {
	UserID string
	Admin  bool
}

// Submit crea una solicitud pending del adoptante autenticado.
// Las notificaciones se encolan; su resultado no afecta la respuesta.
func (s *Service) Submit(ctx context.Context, adopterID string, in SubmitInput) (Application, error) {
	const op = "submit"

	adopterID = strings.TrimSpace(adopterID)
	if adopterID == "" {
		return Application{}, s.refuse(op, ErrForbidden)
	}

	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Application{}, s.refuse(op, err)
	}
	// El adoptante sale de la sesión; un adopterId distinto en el body es suplantación.
	if in.AdopterID != "" && in.AdopterID != adopterID {
		return Application{}, s.refuse(op, ErrForbidden)
	}

	pet, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Application{}, s.refuse(op, ErrPetNotFound)
		}
		return Application{}, err
	}
	if !pet.IsAvailable() {
		return Application{}, s.refuse(op, ErrPetAdopted)
	}

	if _, err := s.repo.FindPending(ctx, pet.ID, adopterID); err == nil {
		return Application{}, s.refuse(op, ErrDuplicatePending)
	} else if !errors.Is(err, ErrNotFound) {
		return Application{}, err
	}

	now := s.now()
	app := Application{
		ID:        uuid.NewString(),
		PetID:     pet.ID,
		AdopterID: adopterID,
		Status:    StatusPending,
		LivingArrangement: LivingArrangement{
			HomeType:  HomeType(in.LivingArrangement.HomeType),
			HasYard:   *in.LivingArrangement.HasYard,
			Ownership: Ownership(in.LivingArrangement.Ownership),
		},
		HouseholdInfo: HouseholdInfo{
			NumberOfAdults: in.HouseholdInfo.NumberOfAdults,
			HasChildren:    *in.HouseholdInfo.HasChildren,
		},
		PetExperience: PetExperience{
			HasOtherPets:       *in.PetExperience.HasOtherPets,
			PreviousExperience: in.PetExperience.PreviousExperience,
		},
		AdoptionDetails: AdoptionDetails{
			Reason:   in.AdoptionDetails.Reason,
			Schedule: in.AdoptionDetails.Schedule,
		},
		AgreementAccepted: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// El storage revalida duplicado y disponibilidad de forma atómica.
	if err := s.repo.Submit(ctx, app); err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
			return Application{}, s.refuse(op, err)
		}
		return Application{}, err
	}
	metrics.RecordTransition(string(StatusPending), "submit", 1)

	s.record(ctx, history.RecordInput{
		ApplicationID: app.ID,
		PetID:         app.PetID,
		Type:          history.EntrySubmitted,
		Actor:         history.Actor{Type: history.ActorAdopter, ID: adopterID},
		OccurredAt:    now,
	})

	s.notifySubmitted(ctx, app, pet, in.AdopterEmail)
	return app, nil
}

// UpdateStatus decide una solicitud pending. Aprobar adopta la mascota y
// rechaza en la misma unidad al resto de pending de esa mascota.
func (s *Service) UpdateStatus(ctx context.Context, actorUserID, applicationID string, in UpdateStatusInput) (Application, error) {
	const op = "update_status"

	app, err := s.repo.GetByID(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Application{}, s.refuse(op, ErrApplicationNotFound)
		}
		return Application{}, err
	}

	pet, err := s.pets.GetByID(ctx, app.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return Application{}, s.refuse(op, ErrPetNotFound)
		}
		return Application{}, err
	}

	// Ownership antes que cualquier otra regla: un no-dueño siempre ve 403.
	if err := s.guard.CanManage(ctx, actorUserID, pet.ShelterID); err != nil {
		if errors.Is(err, shelters.ErrForbidden) {
			return Application{}, s.refuse(op, ErrForbidden)
		}
		return Application{}, err
	}

	in.normalize()
	if err := validate.Struct(&in); err != nil {
		return Application{}, s.refuse(op, err)
	}
	target := Status(in.Status)

	if target == StatusApproved && !pet.IsAvailable() {
		return Application{}, s.refuse(op, ErrPetAdopted)
	}
	if !CanTransition(app.Status, target) {
		return Application{}, s.refuse(op, ErrAlreadyDecided)
	}

	now := s.now()
	actor := history.Actor{Type: history.ActorShelter, ID: actorUserID}

	switch target {
	case StatusApproved:
		res, err := s.repo.Approve(ctx, ApproveInput{
			ApplicationID: app.ID,
			PetID:         pet.ID,
			SiblingReason: SiblingRejectionReason,
			At:            now,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
				return Application{}, s.refuse(op, err)
			}
			return Application{}, err
		}
		metrics.RecordTransition(string(StatusApproved), "decision", 1)
		metrics.RecordTransition(string(StatusRejected), "cascade", len(res.Rejected))

		entries := make([]history.RecordInput, 0, len(res.Rejected)+1)
		entries = append(entries, history.RecordInput{
			ApplicationID: res.Approved.ID,
			PetID:         pet.ID,
			Type:          history.EntryApproved,
			Actor:         actor,
			OccurredAt:    now,
		})
		for _, sib := range res.Rejected {
			entries = append(entries, history.RecordInput{
				ApplicationID: sib.ID,
				PetID:         pet.ID,
				Type:          history.EntryAutoRejected,
				Actor:         history.Actor{Type: history.ActorSystem},
				Reason:        sib.RejectionReason,
				OccurredAt:    now,
			})
		}
		s.record(ctx, entries...)

		s.notifyDecided(ctx, pet, append([]Application{res.Approved}, res.Rejected...))
		return res.Approved, nil

	default:
		rejected, err := s.repo.Reject(ctx, app.ID, in.RejectionReason, now)
		if err != nil {
			if errors.Is(err, ErrInvalidState) || errors.Is(err, ErrNotFound) {
				return Application{}, s.refuse(op, err)
			}
			return Application{}, err
		}
		metrics.RecordTransition(string(StatusRejected), "decision", 1)

		s.record(ctx, history.RecordInput{
			ApplicationID: rejected.ID,
			PetID:         pet.ID,
			Type:          history.EntryRejected,
			Actor:         actor,
			Reason:        rejected.RejectionReason,
			OccurredAt:    now,
		})

		s.notifyDecided(ctx, pet, []Application{rejected})
		return rejected, nil
	}
}

// ListForShelter devuelve las solicitudes de las mascotas del refugio
// (aprobado) del usuario, más nuevas primero.
func (s *Service) ListForShelter(ctx context.Context, userID string) ([]ShelterView, error) {
	sh, err := s.shelters.ApprovedShelterOf(ctx, userID)
	if err != nil {
		if errors.Is(err, shelters.ErrForbidden) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	petList, err := s.pets.ListByShelter(ctx, sh.ID)
	if err != nil {
		return nil, err
	}
	if len(petList) == 0 {
		return []ShelterView{}, nil
	}

	petByID := make(map[string]pets.Pet, len(petList))
	petIDs := make([]string, 0, len(petList))
	for _, p := range petList {
		petByID[p.ID] = p
		petIDs = append(petIDs, p.ID)
	}

	apps, err := s.repo.ListByPets(ctx, petIDs)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)

	adopterIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		adopterIDs = append(adopterIDs, a.AdopterID)
	}
	profiles, err := s.users.GetMany(ctx, adopterIDs)
	if err != nil {
		return nil, err
	}

	out := make([]ShelterView, 0, len(apps))
	for _, a := range apps {
		adopter := PersonSummary{ID: a.AdopterID}
		if p, ok := profiles[a.AdopterID]; ok {
			adopter.Name = p.Name
			adopter.Email = p.Email
		}
		out = append(out, ShelterView{
			Application: a,
			Pet:         toPetSummary(petByID[a.PetID]),
			Adopter:     adopter,
		})
	}
	return out, nil
}

// ListForAdopter devuelve las solicitudes propias con mascota y refugio.
func (s *Service) ListForAdopter(ctx context.Context, adopterID string) ([]AdopterView, error) {
	adopterID = strings.TrimSpace(adopterID)
	if adopterID == "" {
		return nil, ErrForbidden
	}

	apps, err := s.repo.ListByAdopter(ctx, adopterID)
	if err != nil {
		return nil, err
	}
	sortNewestFirst(apps)

	petIDs := make([]string, 0, len(apps))
	for _, a := range apps {
		petIDs = append(petIDs, a.PetID)
	}
	petByID, err := s.pets.GetMany(ctx, petIDs)
	if err != nil {
		return nil, err
	}

	shelterByID := map[string]ShelterSummary{}
	for _, p := range petByID {
		if _, ok := shelterByID[p.ShelterID]; ok {
			continue
		}
		sh, err := s.shelters.GetByID(ctx, p.ShelterID)
		if err != nil {
			if errors.Is(err, shelters.ErrNotFound) {
				shelterByID[p.ShelterID] = ShelterSummary{ID: p.ShelterID}
				continue
			}
			return nil, err
		}
		shelterByID[p.ShelterID] = ShelterSummary{ID: sh.ID, Name: sh.Name, Email: sh.Email, Phone: sh.Phone}
	}

	out := make([]AdopterView, 0, len(apps))
	for _, a := range apps {
		p, ok := petByID[a.PetID]
		if !ok {
			p = pets.Pet{ID: a.PetID}
		}
		out = append(out, AdopterView{
			Application: a,
			Pet:         toPetSummary(p),
			Shelter:     shelterByID[p.ShelterID],
		})
	}
	return out, nil
}

// Get: la puede leer el adoptante, el refugio dueño de la mascota o un admin.
func (s *Service) Get(ctx context.Context, v Viewer, applicationID string) (Application, error) {
	app, err := s.repo.GetByID(ctx, strings.TrimSpace(applicationID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Application{}, ErrApplicationNotFound
		}
		return Application{}, err
	}
	if err := s.canView(ctx, v, app); err != nil {
		return Application{}, err
	}
	return app, nil
}

// History devuelve la traza de transiciones de la solicitud.
func (s *Service) History(ctx context.Context, v Viewer, applicationID string) ([]history.Entry, error) {
	app, err := s.Get(ctx, v, applicationID)
	if err != nil {
		return nil, err
	}
	return s.history.ListByApplication(ctx, app.ID)
}

func (s *Service) canView(ctx context.Context, v Viewer, app Application) error {
	if v.Admin || (v.UserID != "" && v.UserID == app.AdopterID) {
		return nil
	}
	pet, err := s.pets.GetByID(ctx, app.PetID)
	if err != nil {
		if errors.Is(err, pets.ErrNotFound) {
			return ErrForbidden
		}
		return err
	}
	if err := s.guard.CanManage(ctx, v.UserID, pet.ShelterID); err != nil {
		if errors.Is(err, shelters.ErrForbidden) {
			return ErrForbidden
		}
		return err
	}
	return nil
}

// refuse cuenta el rechazo y devuelve el error tal cual.
func (s *Service) refuse(op string, err error) error {
	reason := "internal"
	switch {
	case errors.Is(err, ErrValidation):
		reason = "validation"
	case errors.Is(err, ErrNotFound):
		reason = "not_found"
	case errors.Is(err, ErrConflict):
		reason = "conflict"
	case errors.Is(err, ErrInvalidState):
		reason = "invalid_state"
	case errors.Is(err, ErrForbidden):
		reason = "forbidden"
	}
	metrics.RecordWorkflowRejection(op, reason)
	return err
}

// record escribe historia después del commit; si falla solo se loguea,
// la transición ya quedó persistida.
func (s *Service) record(ctx context.Context, entries ...history.RecordInput) {
	if s.history == nil || len(entries) == 0 {
		return
	}
	if _, err := s.history.Record(ctx, entries...); err != nil {
		logger.FromContext(ctx, s.log).Error("adoptions: history append failed", map[string]any{
			"application_id": entries[0].ApplicationID,
			"entries":        len(entries),
			"err":            err,
		})
	}
}

func (s *Service) notifySubmitted(ctx context.Context, app Application, pet pets.Pet, sessionEmail string) {
	log := logger.FromContext(ctx, s.log)

	adopter, _ := s.person(ctx, app.AdopterID)
	if adopter.Email == "" {
		adopter.Email = strings.TrimSpace(sessionEmail)
	}

	shelterName, shelterEmail := "", ""
	if sh, err := s.shelters.GetByID(ctx, pet.ShelterID); err == nil {
		shelterName, shelterEmail = sh.Name, sh.Email
	} else {
		log.Warn("adoptions: shelter contact lookup failed", map[string]any{"shelter_id": pet.ShelterID, "err": err})
	}

	snap := notify.ApplicationSnapshot{
		ApplicationID: app.ID,
		PetID:         pet.ID,
		PetName:       pet.Name,
		AdopterID:     app.AdopterID,
		AdopterName:   adopter.Name,
		ShelterName:   shelterName,
		Status:        string(app.Status),
	}

	s.outbox.Enqueue(ctx,
		notify.Message{Kind: notify.KindApplicationConfirmation, To: adopter.Email, Snapshot: snap},
		notify.Message{Kind: notify.KindShelterNewApplication, To: shelterEmail, Snapshot: snap},
	)
}

// notifyDecided encola un aviso de estado por cada solicitud decidida.
func (s *Service) notifyDecided(ctx context.Context, pet pets.Pet, apps []Application) {
	if len(apps) == 0 {
		return
	}

	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		ids = append(ids, a.AdopterID)
	}
	profiles, err := s.users.GetMany(ctx, ids)
	if err != nil {
		logger.FromContext(ctx, s.log).Warn("adoptions: adopter contact lookup failed", map[string]any{"err": err})
		profiles = map[string]users.Profile{}
	}

	shelterName := ""
	if sh, err := s.shelters.GetByID(ctx, pet.ShelterID); err == nil {
		shelterName = sh.Name
	}

	msgs := make([]notify.Message, 0, len(apps))
	for _, a := range apps {
		p := profiles[a.AdopterID]
		msgs = append(msgs, notify.Message{
			Kind: notify.KindApplicationStatus,
			To:   p.Email,
			Snapshot: notify.ApplicationSnapshot{
				ApplicationID: a.ID,
				PetID:         pet.ID,
				PetName:       pet.Name,
				AdopterID:     a.AdopterID,
				AdopterName:   p.Name,
				ShelterName:   shelterName,
				Status:        string(a.Status),
				Reason:        a.RejectionReason,
			},
		})
	}
	s.outbox.Enqueue(ctx, msgs...)
}

func (s *Service) person(ctx context.Context, userID string) (PersonSummary, error) {
	p, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, users.ErrNotFound) {
			logger.FromContext(ctx, s.log).Warn("adoptions: profile lookup failed", map[string]any{"user_id": userID, "err": err})
		}
		return PersonSummary{ID: userID}, err
	}
	return PersonSummary{ID: p.ID, Name: p.Name, Email: p.Email}, nil
}

func toPetSummary(p pets.Pet) PetSummary {
	return PetSummary{
		ID:        p.ID,
		Name:      p.Name,
		Species:   string(p.Species),
		Breed:     p.Breed,
		Status:    string(p.Status),
		ShelterID: p.ShelterID,
	}
}

func sortNewestFirst(apps []Application) {
	sort.SliceStable(apps, func(i, j int) bool {
		if apps[i].CreatedAt.Equal(apps[j].CreatedAt) {
			return apps[i].ID > apps[j].ID
		}
		return apps[i].CreatedAt.After(apps[j].CreatedAt)
	})
}
