package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/vaccine-accounts/internal/domain/entity"
	"github.com/oksasatya/vaccine-accounts/internal/domain/repository"
)

func seed(t *testing.T, r *UserRepository, email, accountType string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "h", Name: "N", Gender: "F", Age: 30, AccountType: accountType}
	require.NoError(t, r.Create(context.Background(), u))
	return u
}

func TestCreateAssignsIDs(t *testing.T) {
	r := NewUserRepository()
	a := seed(t, r, "a@b.com", "user")
	b := seed(t, r, "c@d.com", "user")
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestCreateDuplicateEmail(t *testing.T) {
	r := NewUserRepository()
	seed(t, r, "a@b.com", "user")
	err := r.Create(context.Background(), &entity.User{Email: "a@b.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestFindByFilter(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	seed(t, r, "a@b.com", "admin")
	seed(t, r, "c@d.com", "user")
	seed(t, r, "e@f.com", "user")

	admin, err := r.FindOne(ctx, repository.Filter{"account_type": "admin"})
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", admin.Email)

	users, err := r.FindAll(ctx, repository.Filter{"account_type": "user", "age": 30})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "c@d.com", users[0].Email)

	all, err := r.FindAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = r.FindOne(ctx, repository.Filter{"email": "nobody@x.com"})
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = r.FindAll(ctx, repository.Filter{"password": "h"})
	assert.ErrorIs(t, err, repository.ErrUnknownColumn)
}

func TestUpdateVaccination(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seed(t, r, "a@b.com", "user")

	dose := time.Date(2021, 5, 4, 13, 0, 0, 0, time.UTC)
	n, err := r.Update(ctx, repository.Filter{"id": u.ID}, repository.Changes{
		"vaccine_name":        "Moderna",
		"first_doze_taken":    true,
		"first_doze_date":     dose,
		"is_fully_vaccinated": false,
		"age":                 31,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 31, got.Age)
	require.NotNil(t, got.VaccineName)
	assert.Equal(t, "Moderna", *got.VaccineName)
	require.NotNil(t, got.FirstDozeDate)
	assert.Equal(t, 4, got.FirstDozeDate.Day())

	fully, err := r.FindAll(ctx, repository.Filter{"is_fully_vaccinated": false})
	require.NoError(t, err)
	assert.Len(t, fully, 1)

	byDate, err := r.FindAll(ctx, repository.Filter{"first_doze_date": time.Date(2021, 5, 4, 0, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Len(t, byDate, 1)
}

func TestUpdateDuplicateEmailAndGuards(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	a := seed(t, r, "a@b.com", "user")
	seed(t, r, "c@d.com", "user")

	_, err := r.Update(ctx, repository.Filter{"id": a.ID}, repository.Changes{"email": "c@d.com"})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	_, err = r.Update(ctx, repository.Filter{}, repository.Changes{"name": "x"})
	assert.ErrorIs(t, err, repository.ErrEmptyFilter)

	n, err := r.Update(ctx, repository.Filter{"id": int64(99)}, repository.Changes{"name": "x"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSoftDeleteHidesRow(t *testing.T) {
	ctx := context.Background()
	r := NewUserRepository()
	u := seed(t, r, "a@b.com", "user")

	n, err := r.SoftDelete(ctx, repository.Filter{"id": u.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = r.GetByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err = r.Update(ctx, repository.Filter{"id": u.ID}, repository.Changes{"name": "x"})
	require.NoError(t, err)
	assert.Zero(t, n)

	// the address is free again once the old row is deleted
	seed(t, r, "a@b.com", "user")
}
