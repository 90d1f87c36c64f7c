package memory

import (
	"context"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
)

type bookingRepo struct {
	s *Store
}

func (r *bookingRepo) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if booking == nil || booking.ID == "" {
		return nil, apperrors.Validation("booking id is required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, b := range r.s.bookings {
		if b.ID == booking.ID {
			return nil, apperrors.AlreadyExists("booking %s already exists", booking.ID)
		}
	}
	stored := cloneBooking(booking)
	r.s.bookings = append(r.s.bookings, stored)
	r.s.snapshotBookingsLocked()

	return cloneBooking(stored), nil
}

func (r *bookingRepo) GetAll(ctx context.Context) ([]*models.Booking, error) {
	return r.filter(func(*models.Booking) bool { return true }), nil
}

func (r *bookingRepo) GetByPassenger(ctx context.Context, passengerID string) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.PassengerID == passengerID }), nil
}

func (r *bookingRepo) GetByRide(ctx context.Context, rideID string) ([]*models.Booking, error) {
	return r.filter(func(b *models.Booking) bool { return b.RideID == rideID }), nil
}

func (r *bookingRepo) filter(keep func(*models.Booking) bool) []*models.Booking {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*models.Booking
	for _, b := range r.s.bookings {
		if keep(b) {
			out = append(out, cloneBooking(b))
		}
	}
	return out
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	c.Ride = b.Ride.Clone()
	return &c
}
