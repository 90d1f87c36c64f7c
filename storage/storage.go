package storage

import (
	"context"
	"time"

	"rideshare/pkg/models"
)

type IStorage interface {
	Ride() IRideStorage
	User() IUserStorage
	Booking() IBookingStorage
	// Flush blocks until every pending snapshot has been written.
	Flush(ctx context.Context) error
	Close()
}

// IRideStorage owns the ride collection. It imposes no ordering on results.
type IRideStorage interface {
	ListAll(ctx context.Context) ([]*models.Ride, error)
	Publish(ctx context.Context, ride *models.Ride) (*models.Ride, error)
	FindByID(ctx context.Context, id string) (*models.Ride, error)
	DecrementSeats(ctx context.Context, id string, count int) (*models.Ride, error)
	Remove(ctx context.Context, id string) error
	// RemoveIf removes the ride only when guard returns nil. The guard sees the
	// ride as stored and runs under the same lock as the removal.
	RemoveIf(ctx context.Context, id string, guard func(*models.Ride) error) error
	FilterByDriver(ctx context.Context, driverID string) ([]*models.Ride, error)
	// FilterBookable keeps rides departing strictly after now.
	FilterBookable(ctx context.Context, now time.Time) ([]*models.Ride, error)
	// FilterUnfinished keeps rides arriving strictly after now.
	FilterUnfinished(ctx context.Context, now time.Time) ([]*models.Ride, error)
}

type IUserStorage interface {
	GetAll(ctx context.Context) ([]*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	// Mutate applies fn to a copy of the user and stores the result
	// atomically. If fn returns an error nothing is stored.
	Mutate(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error)
}

type IBookingStorage interface {
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	GetAll(ctx context.Context) ([]*models.Booking, error)
	GetByPassenger(ctx context.Context, passengerID string) ([]*models.Booking, error)
	GetByRide(ctx context.Context, rideID string) ([]*models.Booking, error)
}

// IBlobStorage is the key-value persistence collaborator. Every collection
// is stored whole under one key.
type IBlobStorage interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
