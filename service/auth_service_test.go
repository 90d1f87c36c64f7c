package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
)

func TestAuthService_Signup(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	p, err := f.svc.Auth().Signup(ctx, SignupProfile{FirstName: " Emma ", LastName: "Wilson", Email: "Emma@Example.com", Role: models.RolePassenger})
	require.NoError(t, err)
	assert.Equal(t, "Emma", p.FirstName)
	assert.Equal(t, "emma@example.com", p.Email)
	assert.True(t, p.IsVerified)
	assert.Empty(t, p.DriverStatus)

	d, err := f.svc.Auth().Signup(ctx, SignupProfile{FirstName: "Marc", Email: "marc@example.com", Role: models.RoleDriver})
	require.NoError(t, err)
	assert.Equal(t, models.DriverNew, d.DriverStatus)
	assert.False(t, d.IsVerified)
	assert.False(t, models.CanPostRide(d))

	_, err = f.svc.Auth().Signup(ctx, SignupProfile{FirstName: "Dup", Email: "EMMA@example.com", Role: models.RolePassenger})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestAuthService_SignupRejects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := []SignupProfile{
		{Email: "x@example.com", Role: models.RolePassenger},
		{FirstName: "X", Email: "not-an-email", Role: models.RolePassenger},
		{FirstName: "X", Email: "x@example.com", Role: models.RoleAdmin},
		{FirstName: "X", Email: "x@example.com", Role: "pilot"},
	}
	for _, c := range cases {
		_, err := f.svc.Auth().Signup(ctx, c)
		assert.ErrorIs(t, err, apperrors.ErrValidation, "%+v", c)
	}

	_, err := f.svc.Auth().Signup(ctx, SignupProfile{FirstName: "X", Email: "admin@rideshare.local", Role: models.RolePassenger})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signup(t, "p@example.com", models.RolePassenger)

	got, err := f.svc.Auth().Login(ctx, " P@example.com ", "anything")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = f.svc.Auth().Login(ctx, "nobody@example.com", "x")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.svc.Auth().Login(ctx, "", "x")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAuthService_AdminOverride(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	admin, err := f.svc.Auth().Login(ctx, "ADMIN@rideshare.local", "admin")
	require.NoError(t, err)
	assert.Equal(t, AdminID, admin.ID)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, err := f.svc.Auth().Get(ctx, AdminID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, again.Role)

	users, err := f.store.User().GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = f.svc.Auth().Login(ctx, "admin@rideshare.local", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAuthService_UpdateAvatar(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	p := f.signup(t, "p@example.com", models.RolePassenger)

	got, err := f.svc.Auth().UpdateAvatar(ctx, p.ID, "https://example.com/a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", got.Avatar)
	assert.Equal(t, p.Email, got.Email)
}
