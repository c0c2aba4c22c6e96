package dto

import (
	"time"

	"user-api/internal/domain"
)

// UserCreateRequest is the payload accepted by both the create and update endpoints.
type UserCreateRequest struct {
	Name  string  `json:"name" binding:"required,notblank,min=2,max=10"`
	Email string  `json:"email" binding:"required,notblank,emailaddr"`
	Phone *string `json:"phone" binding:"omitempty,phone"`
}

// UserResponse is the read-only projection of a User returned to clients.
type UserResponse struct {
	ID        int64   `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
	CreatedAt string  `json:"createdAt"`
}

func NewUserResponse(user domain.User) UserResponse {
	resp := UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if user.Phone != nil {
		v := *user.Phone
		resp.Phone = &v
	}
	return resp
}
