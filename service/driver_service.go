package service

import (
	"context"
	"errors"
	"strings"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

// DriverService runs the driver verification workflow:
// new -> pending -> approved | rejected.
type DriverService interface {
	SubmitApplication(ctx context.Context, userID string, vehicle models.Vehicle, documents map[models.DocumentType]string) (*models.User, error)
	Approve(ctx context.Context, userID string) (*models.User, error)
	Reject(ctx context.Context, userID string) (*models.User, error)
	PendingReview(ctx context.Context) ([]*models.User, error)
	CanPostRide(user *models.User) bool
	UpdateVehicle(ctx context.Context, userID string, vehicle models.Vehicle) (*models.User, error)
}

type driverService struct {
	stg     storage.IUserStorage
	log     logger.ILogger
	pending pendingQueue
}

// NewDriverService rebuilds the pending-review projection from the stored
// accounts.
func NewDriverService(ctx context.Context, stg storage.IStorage, log logger.ILogger) (DriverService, error) {
	s := &driverService{
		stg: stg.User(),
		log: log,
	}

	users, err := s.stg.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if u.IsDriver() && u.DriverStatus == models.DriverPending {
			s.pending.add(u.ID)
		}
	}
	return s, nil
}

func (s *driverService) SubmitApplication(ctx context.Context, userID string, vehicle models.Vehicle, documents map[models.DocumentType]string) (*models.User, error) {
	if missing := vehicle.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation("vehicle %s required", strings.Join(missing, ", "))
	}
	docs := make(map[models.DocumentType]string, len(models.RequiredDocuments))
	for _, d := range models.RequiredDocuments {
		payload := strings.TrimSpace(documents[d])
		if payload == "" {
			return nil, apperrors.Validation("document %s is required", d)
		}
		docs[d] = payload
	}

	user, err := s.stg.Mutate(ctx, userID, func(u *models.User) error {
		if !u.IsDriver() {
			return apperrors.InvalidState("only drivers can apply for verification")
		}
		status := u.DriverStatus
		if status == "" {
			status = models.DriverNew
		}
		next, ok := status.Next(models.EventSubmit)
		if !ok {
			return apperrors.InvalidState("application cannot be submitted while %s", status)
		}

		v := vehicle
		u.Vehicle = &v
		u.DocumentsData = docs
		u.DocumentsUploaded = &models.DocumentChecklist{License: true, Insurance: true, Photo: true}
		u.DriverStatus = next
		u.IsVerified = false
		return nil
	})
	if err != nil {
		s.logRefusal("driver application refused", userID, err)
		return nil, err
	}

	s.pending.add(user.ID)
	s.log.Info("driver application submitted", logger.String("user_id", user.ID), logger.String("vehicle", user.Vehicle.String()))
	return user, nil
}

func (s *driverService) Approve(ctx context.Context, userID string) (*models.User, error) {
	return s.decide(ctx, userID, models.EventApprove)
}

func (s *driverService) Reject(ctx context.Context, userID string) (*models.User, error) {
	return s.decide(ctx, userID, models.EventReject)
}

func (s *driverService) decide(ctx context.Context, userID string, ev models.DriverEvent) (*models.User, error) {
	user, err := s.stg.Mutate(ctx, userID, func(u *models.User) error {
		if !u.IsDriver() {
			return apperrors.InvalidState("user %s is not a driver", u.ID)
		}
		next, ok := u.DriverStatus.Next(ev)
		if !ok {
			return apperrors.InvalidState("cannot %s driver %s: status is %s", ev, u.ID, u.DriverStatus)
		}
		u.DriverStatus = next
		u.IsVerified = next == models.DriverApproved
		return nil
	})
	if err != nil {
		s.logRefusal("driver decision refused", userID, err)
		return nil, err
	}

	s.pending.remove(user.ID)
	s.log.Info("driver application decided", logger.String("user_id", user.ID), logger.String("status", string(user.DriverStatus)))
	return user, nil
}

func (s *driverService) PendingReview(ctx context.Context) ([]*models.User, error) {
	ids := s.pending.list()
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.stg.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.pending.remove(id)
				continue
			}
			return nil, err
		}
		if u.DriverStatus != models.DriverPending {
			s.pending.remove(id)
			continue
		}
		users = append(users, u)
	}
	return users, nil
}

func (s *driverService) CanPostRide(user *models.User) bool {
	return models.CanPostRide(user)
}

func (s *driverService) UpdateVehicle(ctx context.Context, userID string, vehicle models.Vehicle) (*models.User, error) {
	if missing := vehicle.Missing(); len(missing) > 0 {
		return nil, apperrors.Validation("vehicle %s required", strings.Join(missing, ", "))
	}
	return s.stg.Mutate(ctx, userID, func(u *models.User) error {
		if !u.IsDriver() {
			return apperrors.InvalidState("only drivers have a vehicle")
		}
		v := vehicle
		u.Vehicle = &v
		return nil
	})
}

func (s *driverService) logRefusal(msg, userID string, err error) {
	s.log.Warning(msg, logger.String("user_id", userID), logger.String("kind", string(apperrors.KindOf(err))), logger.Error(err))
}
