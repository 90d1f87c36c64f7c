package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

const notifyTimeout = 15 * time.Second

type BookingService interface {
	Book(ctx context.Context, rideID, passengerID string, seats int) (*models.Booking, error)
	// PassengerBookings returns the passenger's tickets, newest first.
	PassengerBookings(ctx context.Context, passengerID string) ([]*models.Booking, error)
	RideBookings(ctx context.Context, rideID string) ([]*models.Booking, error)
}

type bookingService struct {
	rides    storage.IRideStorage
	users    storage.IUserStorage
	bookings storage.IBookingStorage
	opts     Options
	log      logger.ILogger
	wg       sync.WaitGroup
}

func NewBookingService(stg storage.IStorage, opts Options, log logger.ILogger) BookingService {
	return newBookingService(stg, opts, log)
}

func newBookingService(stg storage.IStorage, opts Options, log logger.ILogger) *bookingService {
	return &bookingService{
		rides:    stg.Ride(),
		users:    stg.User(),
		bookings: stg.Booking(),
		opts:     opts,
		log:      log,
	}
}

func (s *bookingService) Book(ctx context.Context, rideID, passengerID string, seats int) (*models.Booking, error) {
	if seats < 1 {
		return nil, apperrors.Validation("at least one seat must be booked")
	}
	if _, err := s.users.GetByID(ctx, passengerID); err != nil {
		return nil, err
	}

	ride, err := s.rides.FindByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if seats > ride.SeatsAvailable {
		return nil, apperrors.InsufficientSeats("ride %s has %d seats left, %d requested", rideID, ride.SeatsAvailable, seats)
	}

	// The repository re-checks availability under its own lock.
	ride, err = s.rides.DecrementSeats(ctx, rideID, seats)
	if err != nil {
		s.log.Warning("booking refused",
			logger.String("ride_id", rideID),
			logger.String("passenger_id", passengerID),
			logger.Int("seats", seats),
			logger.Error(err),
		)
		return nil, err
	}

	booking := &models.Booking{
		ID:          s.opts.NewID(),
		PassengerID: passengerID,
		RideID:      ride.ID,
		Ride:        ride.Clone(),
		Seats:       seats,
		TotalPrice:  seats * ride.Price,
		Currency:    ride.Currency,
		CreatedAt:   s.opts.Now(),
	}
	booking, err = s.bookings.Create(ctx, booking)
	if err != nil {
		s.log.Error("failed to record booking", logger.String("ride_id", rideID), logger.Error(err))
		return nil, err
	}

	s.log.Info("booking confirmed",
		logger.String("booking_id", booking.ID),
		logger.String("ride_id", ride.ID),
		logger.String("passenger_id", passengerID),
		logger.Int("seats", seats),
		logger.Int("seats_left", ride.SeatsAvailable),
	)
	s.notify(booking)
	return booking, nil
}

func (s *bookingService) notify(booking *models.Booking) {
	for _, n := range s.opts.Notifiers {
		s.wg.Add(1)
		go func(n BookingNotifier, b *models.Booking) {
			defer s.wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			if err := n.BookingCreated(ctx, b); err != nil {
				s.log.Error("booking notification failed", logger.String("booking_id", b.ID), logger.Error(err))
			}
		}(n, cloneBooking(booking))
	}
}

func (s *bookingService) wait() {
	s.wg.Wait()
}

func (s *bookingService) PassengerBookings(ctx context.Context, passengerID string) ([]*models.Booking, error) {
	bookings, err := s.bookings.GetByPassenger(ctx, passengerID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
	})
	return bookings, nil
}

func (s *bookingService) RideBookings(ctx context.Context, rideID string) ([]*models.Booking, error) {
	return s.bookings.GetByRide(ctx, rideID)
}

func cloneBooking(b *models.Booking) *models.Booking {
	c := *b
	c.Ride = b.Ride.Clone()
	return &c
}
