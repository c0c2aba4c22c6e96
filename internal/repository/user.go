package repository

import (
	"context"
	"errors"
	"time"

	"user-api/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when a write violates the unique email constraint.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Init(ctx context.Context) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByID(ctx context.Context, id int64) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	// Save inserts the user when ID is zero and updates it otherwise.
	// The returned copy carries the stored id and timestamps.
	Save(ctx context.Context, user domain.User) (domain.User, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Timestamp returns the current UTC time at the precision every backing store keeps.
func Timestamp() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// Touch returns a modification time strictly after prev.
func Touch(prev time.Time) time.Time {
	now := Timestamp()
	if !now.After(prev) {
		now = prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}
