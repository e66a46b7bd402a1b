package memory

import (
	"context"
	"fmt"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
	"github.com/yusufkecer/fittrack-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	DemoEmail    = "demo@fittrack.app"
	DemoPassword = "demo123"
)

// SeedDemoUser registers the demo account so a fresh demo server can be
// logged into straight away.
func SeedDemoUser(ctx context.Context, users repository.UserStore) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}

	profile := domain.DefaultProfile()
	profile.Height = 175
	profile.Weight = 75
	profile.Age = 28
	profile.Gender = "male"
	profile.GoalWeight = 70
	profile.FitnessGoal = "lose_weight"

	u := &domain.User{
		Name:         "Demo User",
		Email:        DemoEmail,
		PasswordHash: string(hash),
		Profile:      profile,
		Settings:     domain.DefaultSettings(),
	}
	if err := users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to seed demo user: %w", err)
	}
	return u, nil
}
