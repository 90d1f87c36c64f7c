package bot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
)

func TestFormatRide(t *testing.T) {
	dep := time.Date(2026, 11, 2, 8, 30, 0, 0, time.UTC)
	r := &models.Ride{
		ID: "r1", Origin: "Toronto", Destination: "Montreal",
		Stops:         []string{"Kingston"},
		DepartureTime: dep, ArrivalTime: dep.Add(6 * time.Hour),
		Price: 40, Currency: "CAD", TotalSeats: 3, SeatsAvailable: 1,
		Features: models.Features{Wifi: true, WinterTires: true},
		Driver: &models.User{
			FirstName: "Sarah", LastName: "Chen", Rating: 4.9,
			Vehicle: &models.Vehicle{Make: "Toyota", Model: "RAV4", Year: "2023", Plate: "ABC123"},
		},
	}

	out := formatRide(r)
	assert.Contains(t, out, "Toronto ➡️ Montreal")
	assert.Contains(t, out, "via Kingston")
	assert.Contains(t, out, "40 CAD per seat")
	assert.Contains(t, out, "1 of 3 seats left")
	assert.Contains(t, out, "Sarah Chen ⭐ 4.9")
	assert.Contains(t, out, "2023 Toyota RAV4 (ABC123)")
	assert.Contains(t, out, "wifi, winter tires")
	assert.Contains(t, out, "🆔 r1")
}

func TestFormatTicket(t *testing.T) {
	b := &models.Booking{ID: "b1", RideID: "r1", Seats: 2, TotalPrice: 80, Currency: "CAD"}
	assert.Contains(t, formatTicket(b), "🎫 r1")

	b.Ride = &models.Ride{Origin: "Toronto", Destination: "Montreal"}
	out := formatTicket(b)
	assert.Contains(t, out, "Toronto ➡️ Montreal")
	assert.Contains(t, out, "2 seat(s)")
	assert.Contains(t, out, "80 CAD total")
}

func TestDriverStatusLine(t *testing.T) {
	assert.Contains(t, driverStatusLine(&models.User{DriverStatus: models.DriverApproved}), "Verified")
	assert.Contains(t, driverStatusLine(&models.User{DriverStatus: models.DriverPending}), "review")
	assert.Contains(t, driverStatusLine(&models.User{DriverStatus: models.DriverNew}), "/apply")
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "Ride r1 has 1 seats left, 2 requested", userMessage(apperrors.InsufficientSeats("ride r1 has 1 seats left, 2 requested")))
	assert.Equal(t, "Something went wrong", userMessage(assert.AnError))
}

func TestCancellable(t *testing.T) {
	open := &models.Ride{TotalSeats: 3, SeatsAvailable: 3}
	booked := &models.Ride{TotalSeats: 3, SeatsAvailable: 1}

	assert.True(t, cancellable(open, false))
	assert.False(t, cancellable(booked, false))
	assert.True(t, cancellable(booked, true))
}
