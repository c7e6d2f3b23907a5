package pets

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pet-adoption/internal/platform/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	mu   sync.Mutex
	byID map[string]Pet
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.byID[p.ID]
	if !ok {
		return ErrNotFound
	}
	p.Status = cur.Status
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context, filter ListFilter) ([]Pet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Pet, 0)
	for _, p := range r.byID {
		if filter.ShelterID != "" && p.ShelterID != filter.ShelterID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) MarkAdopted(ctx context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if p.Status != StatusAvailable {
		return ErrAlreadyAdopted
	}
	p.Status = StatusAdopted
	p.UpdatedAt = at
	r.byID[id] = p
	return nil
}

func TestService_Create_StartsAvailable(t *testing.T) {
	svc := NewService(newTestRepo())

	p, err := svc.Create(context.Background(), "shelter-1", CreateInput{Name: " Milo ", Species: "Dog"})
	require.NoError(t, err)
	assert.Equal(t, "Milo", p.Name)
	assert.Equal(t, SpeciesDog, p.Species)
	assert.Equal(t, SexUnknown, p.Sex)
	assert.Equal(t, StatusAvailable, p.Status)

	_, err = svc.Create(context.Background(), "shelter-1", CreateInput{Name: "X", Species: "dragon"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []validate.FieldError{{Field: "species", Message: "must be one of: dog, cat, rabbit, bird, other"}}, validate.Fields(err))
}

func TestService_MarkAdopted_OneWay(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)

	ok, err := svc.IsAvailable(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, svc.MarkAdopted(ctx, p.ID))
	assert.ErrorIs(t, svc.MarkAdopted(ctx, p.ID), ErrAlreadyAdopted)

	ok, err = svc.IsAvailable(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, svc.MarkAdopted(ctx, "missing"), ErrNotFound)
}

func TestService_MarkAdopted_ConcurrentSingleWinner(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.MarkAdopted(ctx, p.ID) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, wins.Load())
}

func TestService_UpdateProfile_DoesNotTouchStatus(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	p, err := svc.Create(ctx, "shelter-1", CreateInput{Name: "Milo", Species: "dog"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkAdopted(ctx, p.ID))

	name := "Milo II"
	bd := time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)
	updated, err := svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{
		Name:      &name,
		BirthDate: PatchBirthDate{Present: true, Value: &bd},
	})
	require.NoError(t, err)
	assert.Equal(t, "Milo II", updated.Name)

	got, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusAdopted, got.Status)
	require.NotNil(t, got.BirthDate)

	cleared, err := svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{BirthDate: PatchBirthDate{Present: true}})
	require.NoError(t, err)
	assert.Nil(t, cleared.BirthDate)

	empty := "  "
	_, err = svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{Name: &empty})
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, validate.Fields(err), 1)
	assert.Equal(t, "name", validate.Fields(err)[0].Field)

	sex := " FEMALE "
	updated, err = svc.UpdateProfile(ctx, p.ID, UpdateProfileInput{Sex: &sex})
	require.NoError(t, err)
	assert.Equal(t, SexFemale, updated.Sex)
}
