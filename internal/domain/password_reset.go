package domain

import "time"

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

func (r *ForgotPasswordRequest) Normalize() { r.Email = NormalizeEmail(r.Email) }

type ResetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Token    string `json:"token" validate:"required,len=6,numeric"`
	Password string `json:"password" validate:"required,min=6"`
}

func (r *ResetPasswordRequest) Normalize() { r.Email = NormalizeEmail(r.Email) }

type PasswordResetToken struct {
	ID        int64
	UserID    string
	Token     string
	ExpiresAt time.Time
	Used      bool
}
