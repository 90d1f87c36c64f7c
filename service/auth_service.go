package service

import (
	"context"
	"strings"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/logger"
	"rideshare/pkg/models"
	"rideshare/storage"
)

// AdminID is the id of the synthetic account returned for the configured
// admin credentials. It never exists in the user collection.
const AdminID = "admin"

type SignupProfile struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Role      models.Role
	Avatar    string
	Password  string
}

// AuthService identifies users. Passwords are collected but not checked
// except for the configured admin pair.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*models.User, error)
	Signup(ctx context.Context, profile SignupProfile) (*models.User, error)
	Get(ctx context.Context, id string) (*models.User, error)
	UpdateAvatar(ctx context.Context, id, avatar string) (*models.User, error)
}

type authService struct {
	stg  storage.IUserStorage
	opts Options
	log  logger.ILogger
}

func NewAuthService(stg storage.IStorage, opts Options, log logger.ILogger) AuthService {
	return &authService{
		stg:  stg.User(),
		opts: opts,
		log:  log,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = models.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.Validation("email is required")
	}

	if s.isAdmin(email, password) {
		s.log.Info("admin signed in", logger.String("email", email))
		return s.adminUser(), nil
	}

	user, err := s.stg.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	s.log.Warning("password not verified for login", logger.String("user_id", user.ID))
	return user, nil
}

func (s *authService) Signup(ctx context.Context, p SignupProfile) (*models.User, error) {
	email := models.NormalizeEmail(p.Email)
	switch {
	case strings.TrimSpace(p.FirstName) == "":
		return nil, apperrors.Validation("first name is required")
	case email == "" || !strings.Contains(email, "@"):
		return nil, apperrors.Validation("a valid email is required")
	case p.Role == models.RoleAdmin:
		return nil, apperrors.Validation("admin accounts cannot be created by signup")
	case !p.Role.Valid():
		return nil, apperrors.Validation("unknown role %q", p.Role)
	}
	if s.opts.AdminEmail != "" && email == models.NormalizeEmail(s.opts.AdminEmail) {
		return nil, apperrors.AlreadyExists("email %s is already registered", email)
	}

	user := &models.User{
		ID:         s.opts.NewID(),
		FirstName:  strings.TrimSpace(p.FirstName),
		LastName:   strings.TrimSpace(p.LastName),
		Email:      email,
		Phone:      strings.TrimSpace(p.Phone),
		Role:       p.Role,
		Avatar:     p.Avatar,
		IsVerified: p.Role == models.RolePassenger,
		Rating:     5,
		CreatedAt:  s.opts.Now(),
	}
	if p.Role == models.RoleDriver {
		user.DriverStatus = models.DriverNew
		user.DocumentsUploaded = &models.DocumentChecklist{}
	}

	created, err := s.stg.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info("user signed up", logger.String("user_id", created.ID), logger.String("role", string(created.Role)))
	return created, nil
}

func (s *authService) Get(ctx context.Context, id string) (*models.User, error) {
	if id == AdminID {
		return s.adminUser(), nil
	}
	return s.stg.GetByID(ctx, id)
}

func (s *authService) UpdateAvatar(ctx context.Context, id, avatar string) (*models.User, error) {
	return s.stg.Mutate(ctx, id, func(u *models.User) error {
		u.Avatar = avatar
		return nil
	})
}

func (s *authService) isAdmin(email, password string) bool {
	return s.opts.AdminEmail != "" &&
		email == models.NormalizeEmail(s.opts.AdminEmail) &&
		password == s.opts.AdminPassword
}

func (s *authService) adminUser() *models.User {
	return &models.User{
		ID:         AdminID,
		FirstName:  "Admin",
		Email:      models.NormalizeEmail(s.opts.AdminEmail),
		Role:       models.RoleAdmin,
		IsVerified: true,
	}
}
