package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pet-adoption/internal/domain/adoptions"
	"pet-adoption/internal/domain/pets"
)

func seedPet(t *testing.T, svc *pets.Service) pets.Pet {
	t.Helper()
	p, err := svc.Create(context.Background(), "shelter-1", pets.CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)
	return p
}

func pendingApp(id, petID, adopterID string) adoptions.Application {
	now := time.Now()
	return adoptions.Application{
		ID:                id,
		PetID:             petID,
		AdopterID:         adopterID,
		Status:            adoptions.StatusPending,
		AgreementAccepted: true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

func TestAdoptionRepo_Submit_RejectsDuplicatePending(t *testing.T) {
	ctx := context.Background()
	petsSvc := pets.NewService(NewPetRepo())
	repo := NewAdoptionRepo(petsSvc)
	p := seedPet(t, petsSvc)

	require.NoError(t, repo.Submit(ctx, pendingApp("a1", p.ID, "u1")))
	assert.ErrorIs(t, repo.Submit(ctx, pendingApp("a2", p.ID, "u1")), adoptions.ErrConflict)
	require.NoError(t, repo.Submit(ctx, pendingApp("a3", p.ID, "u2")))

	// Resuelta la primera, el mismo adoptante puede volver a aplicar.
	_, err := repo.Reject(ctx, "a1", "not a fit", time.Now())
	require.NoError(t, err)
	require.NoError(t, repo.Submit(ctx, pendingApp("a4", p.ID, "u1")))

	assert.ErrorIs(t, repo.Submit(ctx, pendingApp("a5", "missing", "u1")), adoptions.ErrNotFound)
}

func TestAdoptionRepo_Submit_ConcurrentDuplicatesSingleWinner(t *testing.T) {
	ctx := context.Background()
	petsSvc := pets.NewService(NewPetRepo())
	repo := NewAdoptionRepo(petsSvc)
	p := seedPet(t, petsSvc)

	var ok atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if repo.Submit(ctx, pendingApp(fmt.Sprintf("a%d", i), p.ID, "u1")) == nil {
				ok.Add(1)
			}
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 1, ok.Load())
}

func TestAdoptionRepo_Approve_CascadesAndFlipsPet(t *testing.T) {
	ctx := context.Background()
	petsSvc := pets.NewService(NewPetRepo())
	repo := NewAdoptionRepo(petsSvc)
	p := seedPet(t, petsSvc)
	other := seedPet(t, petsSvc)

	require.NoError(t, repo.Submit(ctx, pendingApp("a1", p.ID, "u1")))
	require.NoError(t, repo.Submit(ctx, pendingApp("a2", p.ID, "u2")))
	require.NoError(t, repo.Submit(ctx, pendingApp("a3", p.ID, "u3")))
	require.NoError(t, repo.Submit(ctx, pendingApp("b1", other.ID, "u2")))

	res, err := repo.Approve(ctx, adoptions.ApproveInput{
		ApplicationID: "a1",
		PetID:         p.ID,
		SiblingReason: adoptions.SiblingRejectionReason,
		At:            time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatusApproved, res.Approved.Status)
	require.NotNil(t, res.Approved.DecidedAt)
	assert.Len(t, res.Rejected, 2)
	for _, a := range res.Rejected {
		assert.Equal(t, adoptions.StatusRejected, a.Status)
		assert.Equal(t, adoptions.SiblingRejectionReason, a.RejectionReason)
	}

	available, err := petsSvc.IsAvailable(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, available)

	// La otra mascota no se toca.
	b1, err := repo.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, adoptions.StatusPending, b1.Status)

	// Terminales: ni aprobar de nuevo ni rechazar.
	_, err = repo.Approve(ctx, adoptions.ApproveInput{ApplicationID: "a2", PetID: p.ID, At: time.Now()})
	assert.ErrorIs(t, err, adoptions.ErrInvalidState)
	_, err = repo.Reject(ctx, "a1", "changed mind", time.Now())
	assert.ErrorIs(t, err, adoptions.ErrInvalidState)

	// Submit sobre una mascota adoptada.
	assert.ErrorIs(t, repo.Submit(ctx, pendingApp("a9", p.ID, "u9")), adoptions.ErrInvalidState)
}

func TestAdoptionRepo_Approve_ConcurrentSingleWinner(t *testing.T) {
	ctx := context.Background()
	petsSvc := pets.NewService(NewPetRepo())
	repo := NewAdoptionRepo(petsSvc)
	p := seedPet(t, petsSvc)

	const n = 12
	for i := 0; i < n; i++ {
		require.NoError(t, repo.Submit(ctx, pendingApp(fmt.Sprintf("a%d", i), p.ID, fmt.Sprintf("u%d", i))))
	}

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := repo.Approve(ctx, adoptions.ApproveInput{
				ApplicationID: fmt.Sprintf("a%d", i),
				PetID:         p.ID,
				SiblingReason: adoptions.SiblingRejectionReason,
				At:            time.Now(),
			})
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, adoptions.ErrInvalidState)
		}(i)
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())

	apps, err := repo.ListByPets(ctx, []string{p.ID})
	require.NoError(t, err)
	approved, rejected := 0, 0
	for _, a := range apps {
		switch a.Status {
		case adoptions.StatusApproved:
			approved++
		case adoptions.StatusRejected:
			rejected++
		}
	}
	assert.Equal(t, 1, approved)
	assert.Equal(t, n-1, rejected)
}
