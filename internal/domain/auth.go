package domain

import "strings"

// NormalizeEmail is the stored form of an address: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *RegisterRequest) Normalize() { r.Email = NormalizeEmail(r.Email) }

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() { r.Email = NormalizeEmail(r.Email) }

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// AuthPayload is the public view of a user returned next to a token.
type AuthPayload struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Profile  Profile  `json:"profile"`
	Settings Settings `json:"settings"`
}

func NewAuthPayload(u *User) AuthPayload {
	return AuthPayload{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Profile:  u.Profile,
		Settings: u.Settings,
	}
}
