package service

import (
	"context"
	"errors"
	"strings"

	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
)

type UserService struct {
	users  domain.UserRepository
	logger *zerolog.Logger
}

func NewUserService(users domain.UserRepository, logger *zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetAllUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(id)
		}
		return nil, err
	}
	return user, nil
}

// CreateUser registers a user. Email must be unique across the
// directory; a taken email is a conflict, not a validation failure.
func (s *UserService) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errValidation("field 'name' must be set")
	}
	if strings.TrimSpace(email) == "" {
		return nil, errValidation("field 'email' must be set")
	}

	if existing, err := s.users.GetUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, errConflict("email %s is already in use", email)
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	user := &models.User{Name: name, Email: email}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errConflict("email %s is already in use", email)
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user created")
	return user, nil
}

// UpdateUser applies a partial update; blank fields keep their current
// value. Changing the email re-checks uniqueness.
func (s *UserService) UpdateUser(ctx context.Context, id int64, upd models.UserUpdate) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errUserNotFound(id)
		}
		return nil, err
	}

	if strings.TrimSpace(upd.Email) != "" && upd.Email != user.Email {
		if existing, err := s.users.GetUserByEmail(ctx, upd.Email); err == nil && existing != nil {
			return nil, errConflict("email %s is already in use", upd.Email)
		} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		user.Email = upd.Email
	}
	if strings.TrimSpace(upd.Name) != "" {
		user.Name = upd.Name
	}

	if err := s.users.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, errConflict("email %s is already in use", upd.Email)
		}
		return nil, err
	}

	s.logger.Info().Int64("user_id", user.ID).Msg("user updated")
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	if _, err := s.users.GetUserByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errUserNotFound(id)
		}
		return err
	}
	if err := s.users.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Int64("user_id", id).Msg("user deleted")
	return nil
}
