package memory

import (
	"context"
	"time"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
)

type rideRepo struct {
	s *Store
}

func (r *rideRepo) ListAll(ctx context.Context) ([]*models.Ride, error) {
	return r.filter(func(*models.Ride) bool { return true }), nil
}

func (r *rideRepo) Publish(ctx context.Context, ride *models.Ride) (*models.Ride, error) {
	if ride == nil {
		return nil, apperrors.Validation("ride is required")
	}
	if ride.ID == "" {
		return nil, apperrors.Validation("ride id is required")
	}
	if err := ride.Validate(); err != nil {
		return nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.indexLocked(ride.ID) >= 0 {
		return nil, apperrors.AlreadyExists("ride %s already exists", ride.ID)
	}
	stored := ride.Clone()
	r.s.rides = append(r.s.rides, stored)
	r.s.snapshotRidesLocked()

	return stored.Clone(), nil
}

func (r *rideRepo) FindByID(ctx context.Context, id string) (*models.Ride, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, apperrors.NotFound("ride %s not found", id)
	}
	return r.s.rides[i].Clone(), nil
}

func (r *rideRepo) DecrementSeats(ctx context.Context, id string, count int) (*models.Ride, error) {
	if count < 1 {
		return nil, apperrors.Validation("seat count must be at least 1")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, apperrors.NotFound("ride %s not found", id)
	}
	ride := r.s.rides[i]
	if count > ride.SeatsAvailable {
		return nil, apperrors.InsufficientSeats("ride %s has %d seats left, %d requested", id, ride.SeatsAvailable, count)
	}

	ride.SeatsAvailable -= count
	if ride.SeatsAvailable < 0 {
		ride.SeatsAvailable = 0
	}
	r.s.snapshotRidesLocked()

	return ride.Clone(), nil
}

func (r *rideRepo) Remove(ctx context.Context, id string) error {
	return r.RemoveIf(ctx, id, nil)
}

func (r *rideRepo) RemoveIf(ctx context.Context, id string, guard func(*models.Ride) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return apperrors.NotFound("ride %s not found", id)
	}
	if guard != nil {
		if err := guard(r.s.rides[i].Clone()); err != nil {
			return err
		}
	}
	r.s.rides = append(r.s.rides[:i], r.s.rides[i+1:]...)
	r.s.snapshotRidesLocked()
	return nil
}

func (r *rideRepo) FilterByDriver(ctx context.Context, driverID string) ([]*models.Ride, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.DriverID == driverID }), nil
}

func (r *rideRepo) FilterBookable(ctx context.Context, now time.Time) ([]*models.Ride, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.Bookable(now) }), nil
}

func (r *rideRepo) FilterUnfinished(ctx context.Context, now time.Time) ([]*models.Ride, error) {
	return r.filter(func(ride *models.Ride) bool { return ride.Unfinished(now) }), nil
}

func (r *rideRepo) filter(keep func(*models.Ride) bool) []*models.Ride {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rides := make([]*models.Ride, 0, len(r.s.rides))
	for _, ride := range r.s.rides {
		if keep(ride) {
			rides = append(rides, ride.Clone())
		}
	}
	return rides
}

func (r *rideRepo) indexLocked(id string) int {
	for i, ride := range r.s.rides {
		if ride.ID == id {
			return i
		}
	}
	return -1
}
