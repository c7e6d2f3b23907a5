package users

import (
	"context"
	"testing"
	"time"

	"pet-adoption/internal/platform/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID map[string]Profile
}

func (r *testRepo) Upsert(ctx context.Context, p Profile) error {
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Profile, error) {
	p, ok := r.byID[id]
	if !ok {
		return Profile{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) GetMany(ctx context.Context, ids []string) (map[string]Profile, error) {
	out := map[string]Profile{}
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func TestService_SaveProfile_KeepsCreatedAt(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Profile{}})
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	svc.now = func() time.Time { return t1 }
	_, err := svc.SaveProfile(context.Background(), "u-1", ProfileInput{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return t2 }
	p, err := svc.SaveProfile(context.Background(), "u-1", ProfileInput{Name: "Ana María", Email: "ana@example.com"})
	require.NoError(t, err)

	assert.Equal(t, t1, p.CreatedAt)
	assert.Equal(t, t2, p.UpdatedAt)
	assert.Equal(t, "Ana María", p.Name)
}

func TestService_SaveProfile_Validates(t *testing.T) {
	svc := NewService(&testRepo{byID: map[string]Profile{}})

	_, err := svc.SaveProfile(context.Background(), "u-1", ProfileInput{Name: "Ana", Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SaveProfile(context.Background(), "u-1", ProfileInput{Email: "ana@example.com"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	require.Len(t, validate.Fields(err), 1)
	assert.Equal(t, "name", validate.Fields(err)[0].Field)
}

func TestService_SaveProfile_RejectsDisplayNameAddress(t *testing.T) {
	repo := &testRepo{byID: map[string]Profile{}}
	svc := NewService(repo)

	_, err := svc.SaveProfile(context.Background(), "u-1", ProfileInput{Name: "Bob", Email: "Bob Smith <bob@example.com>"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, []validate.FieldError{{Field: "email", Message: "must be a valid email address"}}, validate.Fields(err))
	assert.Empty(t, repo.byID)

	p, err := svc.SaveProfile(context.Background(), "u-1", ProfileInput{Name: "Bob", Email: "  bob@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", p.Email)
}

func TestService_GetMany_Dedups(t *testing.T) {
	repo := &testRepo{byID: map[string]Profile{"u-1": {ID: "u-1", Email: "a@example.com"}}}
	svc := NewService(repo)

	got, err := svc.GetMany(context.Background(), []string{"u-1", " u-1 ", "", "u-404"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, "a@example.com", got["u-1"].Email)
}
