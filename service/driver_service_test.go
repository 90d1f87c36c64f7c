package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage/memory"
)

func TestDriverService_SubmitValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	noPlate := rav4()
	noPlate.Plate = ""
	_, err := f.svc.Driver().SubmitApplication(ctx, d.ID, noPlate, allDocuments())
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	docs := allDocuments()
	delete(docs, models.DocumentInsurance)
	_, err = f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), docs)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	got, err := f.svc.Auth().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverNew, got.DriverStatus)

	pending, err := f.svc.Driver().PendingReview(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestDriverService_SubmitStoresDocuments(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	d, err := f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	require.NoError(t, err)
	require.NotNil(t, d.DocumentsUploaded)
	assert.True(t, d.DocumentsUploaded.Complete())
	assert.Len(t, d.DocumentsData, 3)
	assert.False(t, d.IsVerified)
	assert.Equal(t, "2023 Toyota RAV4 (ABC123)", d.Vehicle.String())
}

func TestDriverService_DoubleSubmitKeepsOnePendingEntry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	_, err := f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	require.NoError(t, err)
	_, err = f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	pending, err := f.svc.Driver().PendingReview(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, d.ID, pending[0].ID)
}

func TestDriverService_PassengerCannotApply(t *testing.T) {
	f := newFixture(t)
	p := f.signup(t, "p@example.com", models.RolePassenger)

	_, err := f.svc.Driver().SubmitApplication(context.Background(), p.ID, rav4(), allDocuments())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestDriverService_DecisionsRequirePending(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	_, err := f.svc.Driver().Approve(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = f.svc.Driver().Reject(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = f.svc.Driver().Approve(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDriverService_RejectIsTerminal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	_, err := f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	require.NoError(t, err)
	d, err = f.svc.Driver().Reject(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverRejected, d.DriverStatus)
	assert.False(t, d.IsVerified)

	pending, err := f.svc.Driver().PendingReview(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)

	_, err = f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	_, err = f.svc.Driver().Approve(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestDriverService_PendingReviewOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var ids []string
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		d := f.signup(t, email, models.RoleDriver)
		_, err := f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
		require.NoError(t, err)
		ids = append(ids, d.ID)
	}
	_, err := f.svc.Driver().Approve(ctx, ids[1])
	require.NoError(t, err)

	pending, err := f.svc.Driver().PendingReview(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, ids[0], pending[0].ID)
	assert.Equal(t, ids[2], pending[1].ID)
}

func TestDriverService_RebuildsPendingOnStartup(t *testing.T) {
	ctx := context.Background()
	blob := memory.NewBlob()
	now := func() time.Time { return testNow }

	store, err := memory.New(ctx, blob, memory.Options{Now: now}, logger.Nop())
	require.NoError(t, err)
	svc, err := New(ctx, store, Options{Now: now}, logger.Nop())
	require.NoError(t, err)

	d, err := svc.Auth().Signup(ctx, SignupProfile{FirstName: "Dana", Email: "dana@example.com", Role: models.RoleDriver})
	require.NoError(t, err)
	_, err = svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	require.NoError(t, err)
	require.NoError(t, store.Flush(ctx))
	store.Close()

	reopened, err := memory.New(ctx, blob, memory.Options{Now: now}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()
	svc, err = New(ctx, reopened, Options{Now: now}, logger.Nop())
	require.NoError(t, err)

	pending, err := svc.Driver().PendingReview(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, d.ID, pending[0].ID)
}

func TestDriverService_UpdateVehicle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.approvedDriver(t, "d@example.com")

	v := rav4()
	v.Color = "Blue"
	d, err := f.svc.Driver().UpdateVehicle(ctx, d.ID, v)
	require.NoError(t, err)
	assert.Equal(t, "Blue", d.Vehicle.Color)
	assert.Equal(t, models.DriverApproved, d.DriverStatus)
	assert.True(t, f.svc.Driver().CanPostRide(d))

	_, err = f.svc.Driver().UpdateVehicle(ctx, d.ID, models.Vehicle{Make: "Toyota"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDriverService_ApproveThenReject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	d := f.signup(t, "d@example.com", models.RoleDriver)

	_, err := f.svc.Driver().SubmitApplication(ctx, d.ID, rav4(), allDocuments())
	require.NoError(t, err)
	_, err = f.svc.Driver().Approve(ctx, d.ID)
	require.NoError(t, err)

	_, err = f.svc.Driver().Reject(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	got, err := f.svc.Auth().Get(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DriverApproved, got.DriverStatus)
	assert.True(t, got.IsVerified)
}
