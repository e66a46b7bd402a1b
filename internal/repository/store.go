package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

// ErrDuplicateEmail is returned by UserStore.Create when the address is
// already registered.
var ErrDuplicateEmail = errors.New("email already registered")

// Lookups return (nil, nil) when no record matches. Owner-scoped lookups
// treat a record owned by someone else exactly like a missing one.

type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateWeight(ctx context.Context, id string, weight float64) error
	SetWearableUserID(ctx context.Context, id string, wearableUserID *string) error
}

type ResetTokenStore interface {
	Create(ctx context.Context, userID, token string, expiresAt time.Time) error
	GetValid(ctx context.Context, email, token string, now time.Time) (*domain.PasswordResetToken, error)
	MarkUsed(ctx context.Context, id int64) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type WorkoutStore interface {
	Create(ctx context.Context, w *domain.Workout) error
	Get(ctx context.Context, userID, id string) (*domain.Workout, error)
	List(ctx context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, int, error)
	Since(ctx context.Context, userID string, since time.Time) ([]domain.Workout, error)
	FindSynced(ctx context.Context, userID string, completedAt time.Time) (*domain.Workout, error)
	Update(ctx context.Context, w *domain.Workout) error
	Delete(ctx context.Context, userID, id string) (bool, error)
}

type MealStore interface {
	Create(ctx context.Context, m *domain.Meal) error
	Get(ctx context.Context, userID, id string) (*domain.Meal, error)
	List(ctx context.Context, userID string, f domain.MealFilter) ([]domain.Meal, int, error)
	Between(ctx context.Context, userID string, from, to time.Time) ([]domain.Meal, error)
	Favorites(ctx context.Context, userID string) ([]domain.Meal, error)
	Update(ctx context.Context, m *domain.Meal) error
	Delete(ctx context.Context, userID, id string) (bool, error)
}

type ProgressStore interface {
	Create(ctx context.Context, p *domain.Progress) error
	Get(ctx context.Context, userID, id string) (*domain.Progress, error)
	List(ctx context.Context, userID string, page domain.Page) ([]domain.Progress, int, error)
	Since(ctx context.Context, userID string, since time.Time) ([]domain.Progress, error)
	Update(ctx context.Context, p *domain.Progress) error
	Delete(ctx context.Context, userID, id string) (bool, error)
}

type ReminderStore interface {
	Create(ctx context.Context, r *domain.Reminder) error
	Get(ctx context.Context, userID, id string) (*domain.Reminder, error)
	List(ctx context.Context, userID string, active *bool) ([]domain.Reminder, error)
	Update(ctx context.Context, r *domain.Reminder) error
	Delete(ctx context.Context, userID, id string) (bool, error)
}

// Stores bundles every collection so callers can swap MySQL for the
// in-memory implementation in one place.
type Stores struct {
	Users       UserStore
	ResetTokens ResetTokenStore
	Workouts    WorkoutStore
	Meals       MealStore
	Progress    ProgressStore
	Reminders   ReminderStore
}
