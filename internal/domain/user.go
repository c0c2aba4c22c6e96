package domain

import "time"

// User represents a person record managed by the API.
type User struct {
	ID        int64
	Name      string
	Email     string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
