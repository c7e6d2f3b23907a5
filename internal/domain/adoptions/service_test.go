package adoptions_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/adapters/storage/memory"
	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/history"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/shelters"
	"pet-adoption/internal/domain/users"
	"pet-adoption/internal/ports/notify"
)

type recordingQueue struct {
	mu   sync.Mutex
	msgs []notify.Message
}

func (q *recordingQueue) Enqueue(_ context.Context, msgs ...notify.Message) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.msgs = append(q.msgs, msgs...)
}

func (q *recordingQueue) take() []notify.Message {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.msgs
	q.msgs = nil
	return out
}

type fixture struct {
	svc      *adoptions.Service
	pets     *pets.Service
	shelters *shelters.Service
	users    *users.Service
	outbox   *recordingQueue

	shelterOwner string
	shelter      shelters.Shelter
	pet          pets.Pet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	petsSvc := pets.NewService(memory.NewPetRepo())
	sheltersSvc := shelters.NewService(memory.NewShelterRepo())
	usersSvc := users.NewService(memory.NewUserRepo())
	historySvc := history.NewService(memory.NewHistoryRepo())
	q := &recordingQueue{}

	svc := adoptions.NewService(memory.NewAdoptionRepo(petsSvc), adoptions.Deps{
		Pets:     petsSvc,
		Shelters: sheltersSvc,
		Users:    usersSvc,
		History:  historySvc,
		Outbox:   q,
	})

	// Reloj monotónico para que el orden "más nuevo primero" sea determinista.
	var tick atomic.Int64
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.SetNow(func() time.Time { return base.Add(time.Duration(tick.Add(1)) * time.Second) })

	sh, err := sheltersSvc.Register(ctx, "shelter-owner", shelters.RegisterInput{Name: "Patitas", Email: "refugio@example.com"})
	require.NoError(t, err)
	sh, err = sheltersSvc.Approve(ctx, sh.ID)
	require.NoError(t, err)

	pet, err := petsSvc.Create(ctx, sh.ID, pets.CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)

	for _, u := range []struct{ id, name string }{{"u1", "Ana"}, {"u2", "Luis"}, {"u3", "Sofía"}} {
		_, err := usersSvc.SaveProfile(ctx, u.id, users.ProfileInput{Name: u.name, Email: u.id + "@example.com"})
		require.NoError(t, err)
	}

	return &fixture{
		svc:          svc,
		pets:         petsSvc,
		shelters:     sheltersSvc,
		users:        usersSvc,
		outbox:       q,
		shelterOwner: "shelter-owner",
		shelter:      sh,
		pet:          pet,
	}
}

func boolPtr(b bool) *bool { return &b }

func validInput(petID string) adoptions.SubmitInput {
	var in adoptions.SubmitInput
	in.PetID = petID
	in.LivingArrangement.HomeType = "house"
	in.LivingArrangement.HasYard = boolPtr(true)
	in.LivingArrangement.Ownership = "own"
	in.HouseholdInfo.NumberOfAdults = 2
	in.HouseholdInfo.HasChildren = boolPtr(false)
	in.PetExperience.HasOtherPets = boolPtr(false)
	in.AdoptionDetails.Reason = "We love dogs"
	in.AdoptionDetails.Schedule = "Weekends"
	in.AgreementAccepted = boolPtr(true)
	return in
}

func (f *fixture) submit(t *testing.T, adopterID string) adoptions.Application {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), adopterID, validInput(f.pet.ID))
	require.NoError(t, err)
	return app
}

func TestSubmit_CreatesPendingAndEnqueuesTwoEmails(t *testing.T) {
	f := newFixture(t)

	app := f.submit(t, "u1")
	assert.Equal(t, adoptions.StatusPending, app.Status)
	assert.True(t, app.AgreementAccepted)
	assert.Equal(t, adoptions.HomeHouse, app.LivingArrangement.HomeType)

	msgs := f.outbox.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, notify.KindApplicationConfirmation, msgs[0].Kind)
	assert.Equal(t, "u1@example.com", msgs[0].To)
	assert.Equal(t, notify.KindShelterNewApplication, msgs[1].Kind)
	assert.Equal(t, "refugio@example.com", msgs[1].To)
	assert.Equal(t, "Milo", msgs[1].Snapshot.PetName)
	assert.Equal(t, "Ana", msgs[1].Snapshot.AdopterName)

	entries, err := f.svc.History(context.Background(), adoptions.Viewer{UserID: "u1"}, app.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, history.EntrySubmitted, entries[0].Type)
}

func TestSubmit_FallsBackToSessionEmail(t *testing.T) {
	f := newFixture(t)

	in := validInput(f.pet.ID)
	in.AdopterEmail = "nuevo@example.com"
	_, err := f.svc.Submit(context.Background(), "no-profile", in)
	require.NoError(t, err)

	msgs := f.outbox.take()
	require.Len(t, msgs, 2)
	assert.Equal(t, "nuevo@example.com", msgs[0].To)
}

func TestSubmit_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := validInput(f.pet.ID)
	in.AgreementAccepted = boolPtr(false)
	in.LivingArrangement.HomeType = "castle"
	in.LivingArrangement.HasYard = nil
	in.AdoptionDetails.Reason = "   "

	_, err := f.svc.Submit(ctx, "u1", in)
	require.ErrorIs(t, err, adoptions.ErrValidation)

	var ve *adoptions.ValidationError
	require.True(t, errors.As(err, &ve))
	fields := map[string]string{}
	for _, fe := range ve.Fields {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "must be accepted", fields["agreementAccepted"])
	assert.Contains(t, fields["livingArrangement.homeType"], "must be one of")
	assert.Equal(t, "is required", fields["livingArrangement.hasYard"])
	assert.Equal(t, "is required", fields["adoptionDetails.reason"])

	in = validInput(f.pet.ID)
	in.AgreementAccepted = nil
	_, err = f.svc.Submit(ctx, "u1", in)
	assert.ErrorIs(t, err, adoptions.ErrValidation)

	assert.Empty(t, f.outbox.take())
}

func TestSubmit_Preconditions(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, "u1", validInput("missing"))
	assert.ErrorIs(t, err, adoptions.ErrNotFound)

	in := validInput(f.pet.ID)
	in.AdopterID = "someone-else"
	_, err = f.svc.Submit(ctx, "u1", in)
	assert.ErrorIs(t, err, adoptions.ErrForbidden)

	in.AdopterID = "u1"
	_, err = f.svc.Submit(ctx, "u1", in)
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "", validInput(f.pet.ID))
	assert.ErrorIs(t, err, adoptions.ErrForbidden)
}

// P1
func TestSubmit_DuplicatePendingConflictsUntilResolved(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.submit(t, "u1")

	_, err := f.svc.Submit(ctx, "u1", validInput(f.pet.ID))
	require.ErrorIs(t, err, adoptions.ErrConflict)
	assert.Equal(t, "duplicate pending application", adoptions.Message(err))

	_, err = f.svc.UpdateStatus(ctx, f.shelterOwner, first.ID, adoptions.UpdateStatusInput{Status: "rejected", RejectionReason: "incomplete"})
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, "u1", validInput(f.pet.ID))
	assert.NoError(t, err)
}

// P2 + escenario: A1 aprobada, A2 rechazada con el motivo estándar; luego aprobar A2 falla.
func TestUpdateStatus_ApproveCascadesToSiblings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, "u1")
	a2 := f.submit(t, "u2")
	a3 := f.submit(t, "u3")
	f.outbox.take()

	approved, err := f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, adoptions.UpdateStatusInput{Status: "approved"})
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedAt)

	for _, id := range []string{a2.ID, a3.ID} {
		got, err := f.svc.Get(ctx, adoptions.Viewer{Admin: true}, id)
		require.NoError(t, err)
		assert.Equal(t, adoptions.StatusRejected, got.Status)
		assert.Equal(t, adoptions.SiblingRejectionReason, got.RejectionReason)
	}

	pet, err := f.pets.GetByID(ctx, f.pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pets.StatusAdopted, pet.Status)

	// N+1 avisos de estado.
	msgs := f.outbox.take()
	require.Len(t, msgs, 3)
	byTo := map[string]notify.Message{}
	for _, m := range msgs {
		assert.Equal(t, notify.KindApplicationStatus, m.Kind)
		byTo[m.To] = m
	}
	assert.Equal(t, "approved", byTo["u1@example.com"].Snapshot.Status)
	assert.Equal(t, "rejected", byTo["u2@example.com"].Snapshot.Status)
	assert.Equal(t, adoptions.SiblingRejectionReason, byTo["u3@example.com"].Snapshot.Reason)

	// P6
	_, err = f.svc.UpdateStatus(ctx, f.shelterOwner, a2.ID, adoptions.UpdateStatusInput{Status: "approved"})
	require.ErrorIs(t, err, adoptions.ErrInvalidState)
	assert.Equal(t, "pet already adopted", adoptions.Message(err))

	// Submit sobre mascota adoptada.
	_, err = f.svc.Submit(ctx, "u9", validInput(f.pet.ID))
	assert.ErrorIs(t, err, adoptions.ErrInvalidState)

	entries, err := f.svc.History(ctx, adoptions.Viewer{UserID: "u2"}, a2.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.EntryAutoRejected, entries[1].Type)
	assert.Equal(t, history.ActorSystem, entries[1].Actor.Type)
}

// P3
func TestUpdateStatus_TerminalStatesAreFinal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, "u1")
	_, err := f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, adoptions.UpdateStatusInput{Status: "rejected", RejectionReason: "no yard"})
	require.NoError(t, err)

	for _, in := range []adoptions.UpdateStatusInput{
		{Status: "rejected", RejectionReason: "again"},
		{Status: "approved"},
	} {
		_, err := f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, in)
		assert.ErrorIs(t, err, adoptions.ErrInvalidState)
	}

	_, err = f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, adoptions.UpdateStatusInput{Status: "pending"})
	assert.ErrorIs(t, err, adoptions.ErrValidation)

	got, err := f.svc.Get(ctx, adoptions.Viewer{UserID: "u1"}, a1.ID)
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatusRejected, got.Status)
	assert.Equal(t, "no yard", got.RejectionReason)
}

// P4
func TestUpdateStatus_RejectRequiresReason(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, "u1")

	for _, reason := range []string{"", "   "} {
		_, err := f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, adoptions.UpdateStatusInput{Status: "rejected", RejectionReason: reason})
		require.ErrorIs(t, err, adoptions.ErrValidation)

		var ve *adoptions.ValidationError
		require.True(t, errors.As(err, &ve))
		require.Len(t, ve.Fields, 1)
		assert.Equal(t, "rejectionReason", ve.Fields[0].Field)
	}

	f.outbox.take()
	got, err := f.svc.UpdateStatus(ctx, f.shelterOwner, a1.ID, adoptions.UpdateStatusInput{Status: "rejected", RejectionReason: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", got.RejectionReason)

	pet, err := f.pets.GetByID(ctx, f.pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pets.StatusAvailable, pet.Status)

	msgs := f.outbox.take()
	require.Len(t, msgs, 1)
	assert.Equal(t, "x", msgs[0].Snapshot.Reason)
}

// P5
func TestUpdateStatus_NonOwnerAlwaysForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, "u1")

	// Dueño de otro refugio aprobado.
	other, err := f.shelters.Register(ctx, "other-owner", shelters.RegisterInput{Name: "Huellitas", Email: "h@example.com"})
	require.NoError(t, err)
	_, err = f.shelters.Approve(ctx, other.ID)
	require.NoError(t, err)

	for _, actor := range []string{"other-owner", "u1", "nobody"} {
		for _, in := range []adoptions.UpdateStatusInput{
			{Status: "approved"},
			{Status: "rejected", RejectionReason: "x"},
			{Status: "rejected"},
			{Status: "bogus"},
		} {
			_, err := f.svc.UpdateStatus(ctx, actor, a1.ID, in)
			assert.ErrorIs(t, err, adoptions.ErrForbidden, "actor=%s status=%s", actor, in.Status)
		}
	}

	_, err = f.svc.UpdateStatus(ctx, f.shelterOwner, "missing", adoptions.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestUpdateStatus_UnapprovedShelterIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sh, err := f.shelters.Register(ctx, "pending-owner", shelters.RegisterInput{Name: "Nuevo", Email: "n@example.com"})
	require.NoError(t, err)
	pet, err := f.pets.Create(ctx, sh.ID, pets.CreateInput{Name: "Luna", Species: "cat"})
	require.NoError(t, err)

	app, err := f.svc.Submit(ctx, "u1", validInput(pet.ID))
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, "pending-owner", app.ID, adoptions.UpdateStatusInput{Status: "approved"})
	assert.ErrorIs(t, err, adoptions.ErrForbidden)

	_, err = f.svc.ListForShelter(ctx, "pending-owner")
	assert.ErrorIs(t, err, adoptions.ErrForbidden)
}

func TestUpdateStatus_ConcurrentApprovalsSingleWinner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	const n = 10
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		uid := fmt.Sprintf("c%d", i)
		ids = append(ids, f.submit(t, uid).ID)
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.svc.UpdateStatus(ctx, f.shelterOwner, id, adoptions.UpdateStatusInput{Status: "approved"})
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, adoptions.ErrInvalidState)
		}(id)
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())

	views, err := f.svc.ListForShelter(ctx, f.shelterOwner)
	require.NoError(t, err)
	approved := 0
	for _, v := range views {
		if v.Application.Status == adoptions.StatusApproved {
			approved++
			continue
		}
		assert.Equal(t, adoptions.StatusRejected, v.Application.Status)
	}
	assert.Equal(t, 1, approved)
}

func TestListForShelter_NewestFirstWithJoins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a1 := f.submit(t, "u1")
	a2 := f.submit(t, "u2")

	views, err := f.svc.ListForShelter(ctx, f.shelterOwner)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, a2.ID, views[0].Application.ID)
	assert.Equal(t, a1.ID, views[1].Application.ID)
	assert.Equal(t, "Milo", views[0].Pet.Name)
	assert.Equal(t, "Luis", views[0].Adopter.Name)
	assert.Equal(t, "u2@example.com", views[0].Adopter.Email)

	_, err = f.svc.ListForShelter(ctx, "u1")
	assert.ErrorIs(t, err, adoptions.ErrForbidden)
}

func TestListForAdopter_OwnApplicationsWithShelter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	second, err := f.pets.Create(ctx, f.shelter.ID, pets.CreateInput{Name: "Luna", Species: "cat"})
	require.NoError(t, err)

	f.submit(t, "u1")
	latest, err := f.svc.Submit(ctx, "u1", validInput(second.ID))
	require.NoError(t, err)
	f.submit(t, "u2")

	views, err := f.svc.ListForAdopter(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, latest.ID, views[0].Application.ID)
	assert.Equal(t, "Luna", views[0].Pet.Name)
	assert.Equal(t, "Patitas", views[0].Shelter.Name)

	none, err := f.svc.ListForAdopter(ctx, "u3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGet_Visibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a1 := f.submit(t, "u1")

	_, err := f.svc.Get(ctx, adoptions.Viewer{UserID: "u1"}, a1.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, adoptions.Viewer{UserID: f.shelterOwner}, a1.ID)
	assert.NoError(t, err)
	_, err = f.svc.Get(ctx, adoptions.Viewer{UserID: "u2"}, a1.ID)
	assert.ErrorIs(t, err, adoptions.ErrForbidden)
	_, err = f.svc.Get(ctx, adoptions.Viewer{UserID: "u1"}, "missing")
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestCanTransition(t *testing.T) {
	assert.True(t, adoptions.CanTransition(adoptions.StatusPending, adoptions.StatusApproved))
	assert.True(t, adoptions.CanTransition(adoptions.StatusPending, adoptions.StatusRejected))
	assert.False(t, adoptions.CanTransition(adoptions.StatusApproved, adoptions.StatusRejected))
	assert.False(t, adoptions.CanTransition(adoptions.StatusRejected, adoptions.StatusPending))
	assert.False(t, adoptions.CanTransition(adoptions.StatusPending, adoptions.StatusPending))
	assert.True(t, adoptions.StatusApproved.Terminal())
	assert.False(t, adoptions.StatusPending.Terminal())
	assert.False(t, adoptions.Status("bogus").Valid())
}
