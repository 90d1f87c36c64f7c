package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rideshare/pkg/models"
)

func TestRides_RoundTrip(t *testing.T) {
	base := time.Date(2026, 11, 1, 8, 30, 15, 123_000_000, time.UTC)
	rides := []*models.Ride{
		{
			ID: "r1", DriverID: "d1", Origin: "Toronto", Destination: "Montreal",
			Stops:         []string{"Kingston"},
			DepartureTime: base, ArrivalTime: base.Add(5 * time.Hour),
			Price: 40, Currency: "CAD", TotalSeats: 3, SeatsAvailable: 1,
			Luggage:  models.Luggage{Small: 2, Large: 1},
			Features: models.Features{InstantBook: true, WinterTires: true},
		},
		{
			ID: "r2", DriverID: "d2", Origin: "Ottawa", Destination: "Quebec",
			DepartureTime: base.Add(-24 * time.Hour), ArrivalTime: base.Add(-20 * time.Hour),
			Price: 55, Currency: "CAD", TotalSeats: 4, SeatsAvailable: 4,
		},
	}

	data, err := EncodeRides(rides)
	require.NoError(t, err)

	decoded, err := DecodeRides(data)
	require.NoError(t, err)
	require.Len(t, decoded, len(rides))

	for i := range rides {
		assert.Equal(t, rides[i].SeatsAvailable, decoded[i].SeatsAvailable)
		assert.Equal(t, rides[i].Price, decoded[i].Price)
		assert.True(t, rides[i].DepartureTime.Equal(decoded[i].DepartureTime))
		assert.True(t, rides[i].ArrivalTime.Equal(decoded[i].ArrivalTime))
		assert.Equal(t, rides[i].DepartureTime.UnixMilli(), decoded[i].DepartureTime.UnixMilli())
	}
	assert.True(t, decoded[1].DepartureTime.Before(decoded[0].DepartureTime))
	assert.Equal(t, rides[0].Features, decoded[0].Features)
	assert.Equal(t, []string{"Kingston"}, decoded[0].Stops)
}

func TestEncode_EmptyIsArray(t *testing.T) {
	data, err := EncodeUsers(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecode_EmptyPayload(t *testing.T) {
	users, err := DecodeUsers(nil)
	require.NoError(t, err)
	assert.Empty(t, users)

	_, err = DecodeBookings([]byte("{not json"))
	assert.Error(t, err)
}

func TestUsers_DriverFieldsRoundTrip(t *testing.T) {
	users := []*models.User{{
		ID: "d1", Email: "d@example.com", Role: models.RoleDriver,
		DriverStatus:      models.DriverPending,
		Vehicle:           &models.Vehicle{Make: "Toyota", Model: "RAV4", Year: "2023", Plate: "ABC123"},
		DocumentsUploaded: &models.DocumentChecklist{License: true, Insurance: true, Photo: true},
		DocumentsData:     map[models.DocumentType]string{models.DocumentLicense: "data:image/png;base64,AA=="},
	}}

	data, err := EncodeUsers(users)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"driverStatus":"pending"`)

	decoded, err := DecodeUsers(data)
	require.NoError(t, err)
	assert.Equal(t, users[0].Vehicle, decoded[0].Vehicle)
	assert.Equal(t, models.DriverPending, decoded[0].DriverStatus)
	assert.Equal(t, "data:image/png;base64,AA==", decoded[0].DocumentsData[models.DocumentLicense])
}
