package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

type Options struct {
	// Seed fills an empty store with demo drivers and rides.
	Seed bool
	Now  func() time.Time
}

// Store is the authoritative copy of all collections for the running
// session. Every mutation happens under mu and enqueues a whole-collection
// snapshot for the blob store.
type Store struct {
	mu       sync.RWMutex
	rides    []*models.Ride
	users    []*models.User
	bookings []*models.Booking

	blob    storage.IBlobStorage
	persist *persister
	log     logger.ILogger
}

func New(ctx context.Context, blob storage.IBlobStorage, opts Options, log logger.ILogger) (*Store, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		blob: blob,
		log:  log,
	}

	if err := s.load(ctx); err != nil {
		log.Error("failed to load snapshots", logger.Error(err))
		return nil, err
	}

	s.persist = newPersister(blob, log)

	if opts.Seed && len(s.users) == 0 && len(s.rides) == 0 {
		s.mu.Lock()
		s.users, s.rides = seedData(opts.Now())
		s.snapshotUsersLocked()
		s.snapshotRidesLocked()
		s.mu.Unlock()
		log.Info("seeded mock data", logger.Int("users", len(s.users)), logger.Int("rides", len(s.rides)))
	}

	log.Info("memory store ready",
		logger.Int("users", len(s.users)),
		logger.Int("rides", len(s.rides)),
		logger.Int("bookings", len(s.bookings)),
	)
	return s, nil
}

var _ storage.IStorage = (*Store)(nil)

func (s *Store) Ride() storage.IRideStorage       { return &rideRepo{s: s} }
func (s *Store) User() storage.IUserStorage       { return &userRepo{s: s} }
func (s *Store) Booking() storage.IBookingStorage { return &bookingRepo{s: s} }

func (s *Store) Flush(ctx context.Context) error {
	return s.persist.drain(ctx)
}

func (s *Store) Close() {
	if err := s.persist.close(); err != nil {
		s.log.Error("final snapshot flush failed", logger.Error(err))
	}
	if err := s.blob.Close(); err != nil {
		s.log.Error("failed to close blob storage", logger.Error(err))
	}
}

func (s *Store) load(ctx context.Context) error {
	for _, key := range storage.Keys {
		data, found, err := s.blob.Load(ctx, key)
		if err != nil {
			return apperrors.Internal(fmt.Sprintf("load %s", key), err)
		}
		if !found {
			continue
		}

		switch key {
		case storage.KeyUsers:
			var users []*models.User
			if users, err = storage.DecodeUsers(data); err == nil {
				s.users = s.keepValidUsers(users)
			}
		case storage.KeyRides:
			var rides []*models.Ride
			if rides, err = storage.DecodeRides(data); err == nil {
				s.rides = s.keepValidRides(rides)
			}
		case storage.KeyBookings:
			var bookings []*models.Booking
			if bookings, err = storage.DecodeBookings(data); err == nil {
				s.bookings = s.keepValidBookings(bookings)
			}
		}
		if err != nil {
			// A corrupt collection starts empty rather than blocking startup.
			s.log.Error("discarding unreadable snapshot", logger.String("key", key), logger.Error(err))
		}
	}
	return nil
}

// keepValidRides drops null entries, rides without an id, duplicate ids and
// rides breaking the seat or time invariants.
func (s *Store) keepValidRides(rides []*models.Ride) []*models.Ride {
	seen := make(map[string]bool, len(rides))
	out := make([]*models.Ride, 0, len(rides))
	for i, r := range rides {
		var err error
		switch {
		case r == nil:
			err = apperrors.Validation("null entry")
		case r.ID == "":
			err = apperrors.Validation("ride id is required")
		case seen[r.ID]:
			err = apperrors.AlreadyExists("ride %s already loaded", r.ID)
		default:
			err = r.Validate()
		}
		if err != nil {
			s.log.Error("discarding invalid ride", logger.Int("index", i), logger.Error(err))
			continue
		}
		seen[r.ID] = true
		out = append(out, r)
	}
	return out
}

func (s *Store) keepValidUsers(users []*models.User) []*models.User {
	seen := make(map[string]bool, len(users))
	out := make([]*models.User, 0, len(users))
	for i, u := range users {
		if u == nil || u.ID == "" || seen[u.ID] {
			s.log.Error("discarding invalid user", logger.Int("index", i))
			continue
		}
		seen[u.ID] = true
		out = append(out, u)
	}
	return out
}

func (s *Store) keepValidBookings(bookings []*models.Booking) []*models.Booking {
	out := make([]*models.Booking, 0, len(bookings))
	for i, b := range bookings {
		if b == nil || b.ID == "" || b.Seats < 1 {
			s.log.Error("discarding invalid booking", logger.Int("index", i))
			continue
		}
		out = append(out, b)
	}
	return out
}

func (s *Store) snapshotRidesLocked() {
	data, err := storage.EncodeRides(s.rides)
	if err != nil {
		s.log.Error("failed to encode rides", logger.Error(err))
		return
	}
	s.persist.enqueue(storage.KeyRides, data)
}

func (s *Store) snapshotUsersLocked() {
	data, err := storage.EncodeUsers(s.users)
	if err != nil {
		s.log.Error("failed to encode users", logger.Error(err))
		return
	}
	s.persist.enqueue(storage.KeyUsers, data)
}

func (s *Store) snapshotBookingsLocked() {
	data, err := storage.EncodeBookings(s.bookings)
	if err != nil {
		s.log.Error("failed to encode bookings", logger.Error(err))
		return
	}
	s.persist.enqueue(storage.KeyBookings, data)
}
