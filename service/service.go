package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"rideshare/config"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

// BookingNotifier is told about every new booking. Notifiers run in the
// background; their errors are logged and never affect the booking.
type BookingNotifier interface {
	BookingCreated(ctx context.Context, booking *models.Booking) error
}

type Options struct {
	AdminEmail    string
	AdminPassword string

	DefaultCurrency   string
	AllowCancelBooked bool

	Notifiers []BookingNotifier

	Now   func() time.Time
	NewID func() string
}

func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		AdminEmail:        cfg.AdminEmail,
		AdminPassword:     cfg.AdminPassword,
		DefaultCurrency:   cfg.DefaultCurrency,
		AllowCancelBooked: cfg.AllowCancelBooked,
	}
}

type IServiceManager interface {
	Ride() RideService
	Booking() BookingService
	Driver() DriverService
	Auth() AuthService
	// Close waits for in-flight booking notifications.
	Close()
}

type service struct {
	rideService    RideService
	bookingService *bookingService
	driverService  DriverService
	authService    AuthService
}

func New(ctx context.Context, stg storage.IStorage, opts Options, log logger.ILogger) (IServiceManager, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.DefaultCurrency == "" {
		opts.DefaultCurrency = "USD"
	}

	driverService, err := NewDriverService(ctx, stg, log)
	if err != nil {
		return nil, err
	}

	return &service{
		rideService:    NewRideService(stg, opts, log),
		bookingService: newBookingService(stg, opts, log),
		driverService:  driverService,
		authService:    NewAuthService(stg, opts, log),
	}, nil
}

func (s *service) Ride() RideService {
	return s.rideService
}

func (s *service) Booking() BookingService {
	return s.bookingService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Auth() AuthService {
	return s.authService
}

func (s *service) Close() {
	s.bookingService.wait()
}

// pendingQueue is the pending-review projection: driver ids awaiting a
// decision, in submission order, without duplicates.
type pendingQueue struct {
	mu  sync.Mutex
	ids []string
}

func (q *pendingQueue) add(id string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, existing := range q.ids {
		if existing == id {
			return false
		}
	}
	q.ids = append(q.ids, id)
	return true
}

func (q *pendingQueue) remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, existing := range q.ids {
		if existing == id {
			q.ids = append(q.ids[:i], q.ids[i+1:]...)
			return
		}
	}
}

func (q *pendingQueue) list() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.ids...)
}
