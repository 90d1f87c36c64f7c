package memory

import (
	"context"
	"strings"

	"rideshare/pkg/apperrors"
	"rideshare/pkg/models"
)

type userRepo struct {
	s *Store
}

func (r *userRepo) GetAll(ctx context.Context) ([]*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, u.Clone())
	}
	return users, nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	return r.s.users[i].Clone(), nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	i := r.emailIndexLocked(email)
	if i < 0 {
		return nil, apperrors.NotFound("no account for %s", strings.TrimSpace(email))
	}
	return r.s.users[i].Clone(), nil
}

func (r *userRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user == nil || user.ID == "" {
		return nil, apperrors.Validation("user id is required")
	}
	user = user.Clone()
	user.Email = models.NormalizeEmail(user.Email)
	if user.Email == "" {
		return nil, apperrors.Validation("email is required")
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.emailIndexLocked(user.Email) >= 0 {
		return nil, apperrors.AlreadyExists("an account with email %s already exists", user.Email)
	}
	if r.indexLocked(user.ID) >= 0 {
		return nil, apperrors.AlreadyExists("user %s already exists", user.ID)
	}
	r.s.users = append(r.s.users, user)
	r.s.snapshotUsersLocked()

	return user.Clone(), nil
}

func (r *userRepo) Mutate(ctx context.Context, id string, fn func(u *models.User) error) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	i := r.indexLocked(id)
	if i < 0 {
		return nil, apperrors.NotFound("user %s not found", id)
	}
	current := r.s.users[i]
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	// Identity fields are fixed at signup.
	next.ID = current.ID
	next.Email = current.Email
	next.Role = current.Role

	r.s.users[i] = next
	r.s.snapshotUsersLocked()

	return next.Clone(), nil
}

func (r *userRepo) indexLocked(id string) int {
	for i, u := range r.s.users {
		if u.ID == id {
			return i
		}
	}
	return -1
}

func (r *userRepo) emailIndexLocked(email string) int {
	email = models.NormalizeEmail(email)
	for i, u := range r.s.users {
		if models.NormalizeEmail(u.Email) == email {
			return i
		}
	}
	return -1
}
