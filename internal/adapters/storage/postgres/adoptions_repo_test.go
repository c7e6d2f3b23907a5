package postgres

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/history"
	"pet-adoption/internal/domain/pets"
	"pet-adoption/internal/domain/shelters"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requiere un Postgres real: TEST_DB_DSN=postgres://... go test ./internal/adapters/storage/postgres/
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	db, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func seedPet(t *testing.T, db *sql.DB) pets.Pet {
	t.Helper()
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	sh := shelters.Shelter{
		ID:          uuid.NewString(),
		OwnerUserID: uuid.NewString(),
		Name:        "Patitas",
		Email:       "patitas@example.com",
		Approved:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewSheltersRepo(db).Create(ctx, sh))

	p := pets.Pet{
		ID:        uuid.NewString(),
		ShelterID: sh.ID,
		Name:      "Milo",
		Species:   pets.SpeciesDog,
		Sex:       pets.SexUnknown,
		Status:    pets.StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, NewPetsRepo(db).Create(ctx, p))
	return p
}

func newApplication(petID, adopterID string) adoptions.Application {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return adoptions.Application{
		ID:        uuid.NewString(),
		PetID:     petID,
		AdopterID: adopterID,
		Status:    adoptions.StatusPending,
		LivingArrangement: adoptions.LivingArrangement{
			HomeType:  adoptions.HomeHouse,
			HasYard:   true,
			Ownership: adoptions.OwnershipOwn,
		},
		HouseholdInfo:     adoptions.HouseholdInfo{NumberOfAdults: 2},
		AdoptionDetails:   adoptions.AdoptionDetails{Reason: "compañía", Schedule: "home office"},
		AgreementAccepted: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestAdoptionsRepo_SubmitGuards(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdoptionsRepo(db)
	ctx := context.Background()
	pet := seedPet(t, db)

	first := newApplication(pet.ID, "u1")
	require.NoError(t, repo.Submit(ctx, first))

	got, err := repo.FindPending(ctx, pet.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.True(t, got.LivingArrangement.HasYard)

	assert.ErrorIs(t, repo.Submit(ctx, newApplication(pet.ID, "u1")), adoptions.ErrDuplicatePending)
	assert.ErrorIs(t, repo.Submit(ctx, newApplication(uuid.NewString(), "u1")), adoptions.ErrNotFound)

	require.NoError(t, NewPetsRepo(db).MarkAdopted(ctx, pet.ID, time.Now()))
	assert.ErrorIs(t, repo.Submit(ctx, newApplication(pet.ID, "u2")), adoptions.ErrPetAdopted)
}

func TestAdoptionsRepo_ApproveCascades(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdoptionsRepo(db)
	ctx := context.Background()
	pet := seedPet(t, db)

	a := newApplication(pet.ID, "u1")
	b := newApplication(pet.ID, "u2")
	c := newApplication(pet.ID, "u3")
	for _, app := range []adoptions.Application{a, b, c} {
		require.NoError(t, repo.Submit(ctx, app))
	}
	// c se rechaza antes: no debe tocarse en la cascada.
	_, err := repo.Reject(ctx, c.ID, "sin patio", time.Now())
	require.NoError(t, err)

	res, err := repo.Approve(ctx, adoptions.ApproveInput{
		ApplicationID: a.ID,
		PetID:         pet.ID,
		SiblingReason: adoptions.SiblingRejectionReason,
		At:            time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatusApproved, res.Approved.Status)
	require.NotNil(t, res.Approved.DecidedAt)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, b.ID, res.Rejected[0].ID)
	assert.Equal(t, adoptions.SiblingRejectionReason, res.Rejected[0].RejectionReason)

	p, err := NewPetsRepo(db).GetByID(ctx, pet.ID)
	require.NoError(t, err)
	assert.Equal(t, pets.StatusAdopted, p.Status)

	gotC, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "sin patio", gotC.RejectionReason)

	_, err = repo.Reject(ctx, a.ID, "tarde", time.Now())
	assert.ErrorIs(t, err, adoptions.ErrAlreadyDecided)
	_, err = repo.Reject(ctx, uuid.NewString(), "x", time.Now())
	assert.ErrorIs(t, err, adoptions.ErrNotFound)
}

func TestAdoptionsRepo_ConcurrentApprovalsSingleWinner(t *testing.T) {
	db := openTestDB(t)
	repo := NewAdoptionsRepo(db)
	ctx := context.Background()
	pet := seedPet(t, db)

	apps := make([]adoptions.Application, 0, 5)
	for i := 0; i < 5; i++ {
		app := newApplication(pet.ID, uuid.NewString())
		require.NoError(t, repo.Submit(ctx, app))
		apps = append(apps, app)
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for _, app := range apps {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.Approve(ctx, adoptions.ApproveInput{
				ApplicationID: id,
				PetID:         pet.ID,
				SiblingReason: adoptions.SiblingRejectionReason,
				At:            time.Now(),
			})
			if err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, adoptions.ErrPetAdopted)
		}(app.ID)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)

	list, err := repo.ListByPets(ctx, []string{pet.ID})
	require.NoError(t, err)
	approved := 0
	for _, a := range list {
		assert.NotEqual(t, adoptions.StatusPending, a.Status)
		if a.Status == adoptions.StatusApproved {
			approved++
		}
	}
	assert.Equal(t, 1, approved)
}

func TestHistoryRepo_AppendAndList(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	pet := seedPet(t, db)
	app := newApplication(pet.ID, "u1")
	require.NoError(t, NewAdoptionsRepo(db).Submit(ctx, app))

	base := time.Now().UTC().Truncate(time.Microsecond)
	repo := NewHistoryRepo(db)
	require.NoError(t, repo.Append(ctx, []history.Entry{
		{ID: uuid.NewString(), ApplicationID: app.ID, PetID: pet.ID, Type: history.EntrySubmitted, Actor: history.Actor{Type: history.ActorAdopter, ID: "u1"}, OccurredAt: base},
		{ID: uuid.NewString(), ApplicationID: app.ID, PetID: pet.ID, Type: history.EntryAutoRejected, Actor: history.Actor{Type: history.ActorSystem}, Reason: adoptions.SiblingRejectionReason, OccurredAt: base.Add(time.Second)},
	}))

	entries, err := repo.ListByApplication(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, history.EntrySubmitted, entries[0].Type)
	assert.Equal(t, history.ActorSystem, entries[1].Actor.Type)
}
