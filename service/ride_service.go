package service

import (
	"context"
	"strings"
	"time"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

// RideDraft is what a driver fills in to publish a ride.
type RideDraft struct {
	Origin        string
	Destination   string
	Stops         []string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         int
	Currency      string
	TotalSeats    int
	Luggage       models.Luggage
	Features      models.Features
	DistanceKm    float64
	Description   string
}

type SearchFilter struct {
	Origin      string
	Destination string
	Seats       int
}

type RideService interface {
	Publish(ctx context.Context, driverID string, draft RideDraft) (*models.Ride, error)
	Get(ctx context.Context, id string) (*models.Ride, error)
	ListAll(ctx context.Context) ([]*models.Ride, error)
	// Search returns bookable rides matching the filter, earliest first.
	Search(ctx context.Context, filter SearchFilter) ([]*models.Ride, error)
	DriverTrips(ctx context.Context, driverID string) ([]*models.Ride, error)
	// Upcoming returns the driver's rides that have not arrived yet.
	Upcoming(ctx context.Context, driverID string) ([]*models.Ride, error)
	Cancel(ctx context.Context, driverID, rideID string) error
}

type rideService struct {
	rides storage.IRideStorage
	users storage.IUserStorage
	opts  Options
	log   logger.ILogger
}

func NewRideService(stg storage.IStorage, opts Options, log logger.ILogger) RideService {
	return &rideService{
		rides: stg.Ride(),
		users: stg.User(),
		opts:  opts,
		log:   log,
	}
}

func (s *rideService) Publish(ctx context.Context, driverID string, draft RideDraft) (*models.Ride, error) {
	driver, err := s.users.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}
	if !models.CanPostRide(driver) {
		s.log.Warning("ride publish refused", logger.String("driver_id", driverID), logger.String("status", string(driver.DriverStatus)))
		return nil, apperrors.InvalidState("driver %s is not approved to post rides", driverID)
	}

	currency := strings.ToUpper(strings.TrimSpace(draft.Currency))
	if currency == "" {
		currency = s.opts.DefaultCurrency
	}
	var stops []string
	for _, stop := range draft.Stops {
		if stop = strings.TrimSpace(stop); stop != "" {
			stops = append(stops, stop)
		}
	}

	ride := &models.Ride{
		ID:             s.opts.NewID(),
		DriverID:       driver.ID,
		Driver:         driver.Public(),
		Origin:         strings.TrimSpace(draft.Origin),
		Destination:    strings.TrimSpace(draft.Destination),
		Stops:          stops,
		DepartureTime:  draft.DepartureTime,
		ArrivalTime:    draft.ArrivalTime,
		Price:          draft.Price,
		Currency:       currency,
		TotalSeats:     draft.TotalSeats,
		SeatsAvailable: draft.TotalSeats,
		Luggage:        draft.Luggage,
		Features:       draft.Features,
		DistanceKm:     draft.DistanceKm,
		Description:    strings.TrimSpace(draft.Description),
	}

	published, err := s.rides.Publish(ctx, ride)
	if err != nil {
		return nil, err
	}
	s.log.Info("ride published",
		logger.String("ride_id", published.ID),
		logger.String("driver_id", driver.ID),
		logger.String("route", published.Origin+" -> "+published.Destination),
		logger.Int("seats", published.TotalSeats),
	)
	return published, nil
}

func (s *rideService) Get(ctx context.Context, id string) (*models.Ride, error) {
	return s.rides.FindByID(ctx, id)
}

func (s *rideService) ListAll(ctx context.Context) ([]*models.Ride, error) {
	rides, err := s.rides.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	models.SortByDeparture(rides)
	return rides, nil
}

func (s *rideService) Search(ctx context.Context, filter SearchFilter) ([]*models.Ride, error) {
	rides, err := s.rides.FilterBookable(ctx, s.opts.Now())
	if err != nil {
		return nil, err
	}

	seats := filter.Seats
	if seats < 1 {
		seats = 1
	}
	origin := strings.ToLower(strings.TrimSpace(filter.Origin))
	destination := strings.ToLower(strings.TrimSpace(filter.Destination))

	out := make([]*models.Ride, 0, len(rides))
	for _, r := range rides {
		if r.SeatsAvailable < seats {
			continue
		}
		if origin != "" && !strings.Contains(strings.ToLower(r.Origin), origin) {
			continue
		}
		if destination != "" && !strings.Contains(strings.ToLower(r.Destination), destination) {
			continue
		}
		out = append(out, r)
	}
	models.SortByDeparture(out)
	return out, nil
}

func (s *rideService) DriverTrips(ctx context.Context, driverID string) ([]*models.Ride, error) {
	rides, err := s.rides.FilterByDriver(ctx, driverID)
	if err != nil {
		return nil, err
	}
	models.SortByDeparture(rides)
	return rides, nil
}

func (s *rideService) Upcoming(ctx context.Context, driverID string) ([]*models.Ride, error) {
	rides, err := s.rides.FilterUnfinished(ctx, s.opts.Now())
	if err != nil {
		return nil, err
	}
	out := rides[:0]
	for _, r := range rides {
		if r.DriverID == driverID {
			out = append(out, r)
		}
	}
	models.SortByDeparture(out)
	return out, nil
}

func (s *rideService) Cancel(ctx context.Context, driverID, rideID string) error {
	err := s.rides.RemoveIf(ctx, rideID, func(ride *models.Ride) error {
		if ride.DriverID != driverID {
			return apperrors.InvalidState("ride %s belongs to another driver", rideID)
		}
		if sold := ride.SeatsSold(); sold > 0 && !s.opts.AllowCancelBooked {
			return apperrors.InvalidState("ride %s already has %d booked seats", rideID, sold)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Info("ride cancelled", logger.String("ride_id", rideID), logger.String("driver_id", driverID))
	return nil
}
