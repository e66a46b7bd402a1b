package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const mealColumns = `id, user_id, name, type, foods, calories, protein, carbs, fat, fiber, sugar,
	date, time, notes, is_favorite, image_url, created_at, updated_at`

type MealRepository struct {
	db *sql.DB
}

var _ MealStore = (*MealRepository)(nil)

func NewMealRepository(db *sql.DB) *MealRepository {
	return &MealRepository{db: db}
}

func (r *MealRepository) Create(ctx context.Context, m *domain.Meal) error {
	foods, err := encodeJSON(m.Foods)
	if err != nil {
		return err
	}
	m.ID = newID()
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt

	t := m.TotalNutrition
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO meals (`+mealColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.UserID, m.Name, m.Type, foods, t.Calories, t.Protein, t.Carbs, t.Fat, t.Fiber, t.Sugar,
		m.Date, m.Time, m.Notes, m.IsFavorite, m.ImageURL, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Get(ctx context.Context, userID, id string) (*domain.Meal, error) {
	m, err := scanMeal(r.db.QueryRowContext(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE id = ? AND user_id = ?`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return m, nil
}

func (r *MealRepository) List(ctx context.Context, userID string, f domain.MealFilter) ([]domain.Meal, int, error) {
	var cond where
	cond.add("user_id = ?", userID)
	if f.Type != "" {
		cond.add("type = ?", f.Type)
	}
	if f.From != nil {
		cond.add("date >= ?", *f.From)
	}
	if f.To != nil {
		cond.add("date <= ?", *f.To)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meals`+cond.String(), cond.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count meals: %w", err)
	}

	args := append(cond.args, f.Limit, f.Offset())
	meals, err := r.query(ctx,
		`SELECT `+mealColumns+` FROM meals`+cond.String()+` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	return meals, total, nil
}

func (r *MealRepository) Between(ctx context.Context, userID string, from, to time.Time) ([]domain.Meal, error) {
	return r.query(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = ? AND date >= ? AND date <= ? ORDER BY date ASC, type ASC`,
		userID, from, to)
}

func (r *MealRepository) Favorites(ctx context.Context, userID string) ([]domain.Meal, error) {
	return r.query(ctx,
		`SELECT `+mealColumns+` FROM meals WHERE user_id = ? AND is_favorite = 1 ORDER BY name ASC`,
		userID)
}

func (r *MealRepository) Update(ctx context.Context, m *domain.Meal) error {
	foods, err := encodeJSON(m.Foods)
	if err != nil {
		return err
	}
	m.UpdatedAt = now()

	t := m.TotalNutrition
	_, err = r.db.ExecContext(ctx,
		`UPDATE meals SET name = ?, type = ?, foods = ?, calories = ?, protein = ?, carbs = ?, fat = ?,
		 fiber = ?, sugar = ?, date = ?, time = ?, notes = ?, is_favorite = ?, image_url = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		m.Name, m.Type, foods, t.Calories, t.Protein, t.Carbs, t.Fat,
		t.Fiber, t.Sugar, m.Date, m.Time, m.Notes, m.IsFavorite, m.ImageURL, m.UpdatedAt,
		m.ID, m.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update meal: %w", err)
	}
	return nil
}

func (r *MealRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, r.db, "meals", userID, id)
}

func (r *MealRepository) query(ctx context.Context, query string, args ...any) ([]domain.Meal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	meals := []domain.Meal{}
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		meals = append(meals, *m)
	}
	return meals, rows.Err()
}

func scanMeal(row rowScanner) (*domain.Meal, error) {
	var m domain.Meal
	var foods []byte
	t := &m.TotalNutrition
	err := row.Scan(
		&m.ID, &m.UserID, &m.Name, &m.Type, &foods, &t.Calories, &t.Protein, &t.Carbs, &t.Fat, &t.Fiber, &t.Sugar,
		&m.Date, &m.Time, &m.Notes, &m.IsFavorite, &m.ImageURL, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.Foods = []domain.FoodItem{}
	if err := decodeJSON(foods, &m.Foods); err != nil {
		return nil, err
	}
	return &m, nil
}
