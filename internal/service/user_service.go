package service

import (
	"context"
	"errors"
	"fmt"

	"user-api/internal/domain"
	"user-api/internal/dto"
	"user-api/internal/repository"
)

var (
	// ErrUserNotFound indicates that no user exists with the requested id.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail indicates that another user already owns the email.
	ErrDuplicateEmail = errors.New("email already exists")
)

// UserService describes user lifecycle operations.
type UserService interface {
	CreateUser(ctx context.Context, req dto.UserCreateRequest) (dto.UserResponse, error)
	GetUserByID(ctx context.Context, id int64) (dto.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUser(ctx context.Context, id int64, req dto.UserCreateRequest) (dto.UserResponse, error)
	DeleteUser(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// CreateUser stores a new user. The email pre-check and the insert are not
// atomic; the unique constraint catches concurrent creates and is reported
// as ErrDuplicateEmail as well.
func (s *userService) CreateUser(ctx context.Context, req dto.UserCreateRequest) (dto.UserResponse, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return dto.UserResponse{}, fmt.Errorf("create user: %w", err)
	}
	if exists {
		return dto.UserResponse{}, ErrDuplicateEmail
	}

	saved, err := s.users.Save(ctx, domain.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return dto.UserResponse{}, translate("create user", err)
	}
	return dto.NewUserResponse(saved), nil
}

func (s *userService) GetUserByID(ctx context.Context, id int64) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translate("get user", err)
	}
	return dto.NewUserResponse(user), nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	resp := make([]dto.UserResponse, len(users))
	for i := range users {
		resp[i] = dto.NewUserResponse(users[i])
	}
	return resp, nil
}

func (s *userService) UpdateUser(ctx context.Context, id int64, req dto.UserCreateRequest) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return dto.UserResponse{}, translate("update user", err)
	}

	// keeping one's own email is never a conflict
	if user.Email != req.Email {
		exists, err := s.users.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return dto.UserResponse{}, fmt.Errorf("update user: %w", err)
		}
		if exists {
			return dto.UserResponse{}, ErrDuplicateEmail
		}
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Phone = req.Phone

	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return dto.UserResponse{}, translate("update user", err)
	}
	return dto.NewUserResponse(saved), nil
}

func (s *userService) DeleteUser(ctx context.Context, id int64) error {
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if !exists {
		return ErrUserNotFound
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		return translate("delete user", err)
	}
	return nil
}

// translate maps gateway sentinels onto service failures and wraps the rest.
func translate(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrDuplicateEmail):
		return ErrDuplicateEmail
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
