package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const userColumns = `id, name, email, password_hash, avatar, height, weight, age, gender,
	activity_level, goal_weight, fitness_goal, notifications, dark_mode, units,
	wearable_user_id, created_at`

type UserRepository struct {
	db *sql.DB
}

var _ UserStore = (*UserRepository)(nil)

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	u.CreatedAt = now()

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, u.Avatar,
		u.Profile.Height, u.Profile.Weight, u.Profile.Age, u.Profile.Gender,
		u.Profile.ActivityLevel, u.Profile.GoalWeight, u.Profile.FitnessGoal,
		u.Settings.Notifications, u.Settings.DarkMode, u.Settings.Units,
		u.WearableUserID, u.CreatedAt,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, avatar = ?, height = ?, weight = ?, age = ?, gender = ?,
		 activity_level = ?, goal_weight = ?, fitness_goal = ?, notifications = ?, dark_mode = ?, units = ?
		 WHERE id = ?`,
		u.Name, u.Avatar, u.Profile.Height, u.Profile.Weight, u.Profile.Age, u.Profile.Gender,
		u.Profile.ActivityLevel, u.Profile.GoalWeight, u.Profile.FitnessGoal,
		u.Settings.Notifications, u.Settings.DarkMode, u.Settings.Units,
		u.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (r *UserRepository) UpdateWeight(ctx context.Context, id string, weight float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET weight = ? WHERE id = ?`, weight, id)
	if err != nil {
		return fmt.Errorf("failed to update user weight: %w", err)
	}
	return nil
}

func (r *UserRepository) SetWearableUserID(ctx context.Context, id string, wearableUserID *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET wearable_user_id = ? WHERE id = ?`, wearableUserID, id)
	if err != nil {
		return fmt.Errorf("failed to update wearable link: %w", err)
	}
	return nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var wearable sql.NullString
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Avatar,
		&u.Profile.Height, &u.Profile.Weight, &u.Profile.Age, &u.Profile.Gender,
		&u.Profile.ActivityLevel, &u.Profile.GoalWeight, &u.Profile.FitnessGoal,
		&u.Settings.Notifications, &u.Settings.DarkMode, &u.Settings.Units,
		&wearable, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if wearable.Valid {
		u.WearableUserID = &wearable.String
	}
	return &u, nil
}
