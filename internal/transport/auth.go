package transport

import (
	"strings"

	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *CredentialsRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// SignUpRequest carries optional names that go straight into the profile.
type SignUpRequest struct {
	Email     string  `json:"email" validate:"required,email"`
	Password  string  `json:"password" validate:"required,min=6"`
	FirstName *string `json:"first_name" validate:"omitempty,max=100" label:"first name"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100" label:"last name"`
}

func (r *SignUpRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	AccessExp    int64     `json:"access_exp"`
	RefreshExp   int64     `json:"refresh_exp"`
}

type ProfileRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=100" label:"first name"`
	LastName  *string `json:"last_name" validate:"omitempty,max=100" label:"last name"`
}
