package handler

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/middleware"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"github.com/yusufkecer/fittrack-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetCodeTTL     = 15 * time.Minute
	forgotMessage    = "If the email exists, a reset code has been sent"
	mailSendDeadline = 30 * time.Second
)

type AuthHandler struct {
	responder
	jwtSecret   string
	jwtTTL      time.Duration
	users       repository.UserStore
	resetTokens repository.ResetTokenStore
	mailer      service.Mailer
}

func NewAuthHandler(
	jwtSecret string,
	jwtTTL time.Duration,
	users repository.UserStore,
	resetTokens repository.ResetTokenStore,
	mailer service.Mailer,
	rs responder,
) *AuthHandler {
	return &AuthHandler{
		responder:   rs,
		jwtSecret:   jwtSecret,
		jwtTTL:      jwtTTL,
		users:       users,
		resetTokens: resetTokens,
		mailer:      mailer,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to hash password: %w", err))
		return
	}

	user := &domain.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        req.Email,
		PasswordHash: string(passwordHash),
		Profile:      domain.DefaultProfile(),
		Settings:     domain.DefaultSettings(),
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			h.fail(w, r, domain.ValidationError("Email already registered"))
			return
		}
		h.fail(w, r, err)
		return
	}

	h.sendToken(w, r, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decode(r, &req); err != nil {
		if domain.KindOf(err) == domain.KindValidation && (req.Email == "" || req.Password == "") {
			err = domain.ValidationError("Please provide an email and password")
		}
		h.fail(w, r, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if user == nil {
		h.fail(w, r, domain.AuthError("Invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.fail(w, r, domain.AuthError("Invalid credentials"))
		return
	}

	h.sendToken(w, r, http.StatusOK, user)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"data": middleware.UserFromContext(r.Context())})
}

// UpdateProfile merges the supplied profile and settings fields into the
// stored ones; omitted fields are kept.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateProfileRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user := *middleware.UserFromContext(r.Context())
	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Profile != nil {
		req.Profile.ApplyTo(&user.Profile)
	}
	if req.Settings != nil {
		req.Settings.ApplyTo(&user.Settings)
	}

	if err := h.users.Update(r.Context(), &user); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"data": user})
}

func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdatePasswordRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	user := middleware.UserFromContext(r.Context())
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		h.fail(w, r, domain.AuthError("Current password is incorrect"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to hash password: %w", err))
		return
	}
	if err := h.users.UpdatePassword(r.Context(), user.ID, string(passwordHash)); err != nil {
		h.fail(w, r, err)
		return
	}

	h.sendToken(w, r, http.StatusOK, user)
}

// ForgotPassword always answers with the same message. The code is issued
// and mailed after the response so timing does not reveal whether the
// address is registered.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ForgotPasswordRequest
	if err := decode(r, &req); err != nil || req.Email == "" {
		writeJSON(w, http.StatusOK, envelope{"message": forgotMessage})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	log := h.entry(r).WithField("email", req.Email)

	go h.issueResetCode(ctx, req.Email, log)

	writeJSON(w, http.StatusOK, envelope{"message": forgotMessage})
}

func (h *AuthHandler) issueResetCode(ctx context.Context, email string, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(ctx, mailSendDeadline)
	defer cancel()

	user, err := h.users.GetByEmail(ctx, email)
	if err != nil {
		log.WithError(err).Error("forgot-password: failed to look up user")
		return
	}
	if user == nil {
		return
	}

	if err := h.resetTokens.DeleteByUserID(ctx, user.ID); err != nil {
		log.WithError(err).Warn("forgot-password: failed to delete old codes")
	}

	code, err := generateOTP()
	if err != nil {
		log.WithError(err).Error("forgot-password: failed to generate code")
		return
	}

	if err := h.resetTokens.Create(ctx, user.ID, code, time.Now().UTC().Add(resetCodeTTL)); err != nil {
		log.WithError(err).Error("forgot-password: failed to save code")
		return
	}

	if err := h.mailer.SendPasswordReset(ctx, email, code); err != nil {
		log.WithError(err).Error("forgot-password: failed to send email")
		return
	}
	log.Info("forgot-password: reset email sent")
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req domain.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	token, err := h.resetTokens.GetValid(r.Context(), req.Email, req.Token, time.Now().UTC())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if token == nil {
		h.fail(w, r, domain.AuthError("Invalid or expired reset code"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to hash password: %w", err))
		return
	}
	if err := h.users.UpdatePassword(r.Context(), token.UserID, string(passwordHash)); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.resetTokens.MarkUsed(r.Context(), token.ID); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"message": "Password reset successful"})
}

func (h *AuthHandler) sendToken(w http.ResponseWriter, r *http.Request, status int, user *domain.User) {
	token, err := middleware.GenerateToken(user.ID, user.Email, h.jwtSecret, h.jwtTTL)
	if err != nil {
		h.fail(w, r, fmt.Errorf("failed to generate token: %w", err))
		return
	}
	writeJSON(w, status, envelope{
		"token": token,
		"data":  domain.NewAuthPayload(user),
	})
}

func generateOTP() (string, error) {
	b := make([]byte, 3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	n := int(b[0])<<16 | int(b[1])<<8 | int(b[2])
	return fmt.Sprintf("%06d", n%1000000), nil
}
