package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const workoutColumns = `id, user_id, title, type, exercises, duration, total_calories_burned, intensity,
	mood_before, mood_after, notes, is_completed, scheduled_for, completed_at, source, source_device,
	heart_rate_avg, heart_rate_max, distance, steps, created_at, updated_at`

type WorkoutRepository struct {
	db *sql.DB
}

var _ WorkoutStore = (*WorkoutRepository)(nil)

func NewWorkoutRepository(db *sql.DB) *WorkoutRepository {
	return &WorkoutRepository{db: db}
}

func (r *WorkoutRepository) Create(ctx context.Context, w *domain.Workout) error {
	exercises, err := encodeJSON(w.Exercises)
	if err != nil {
		return err
	}
	w.ID = newID()
	w.CreatedAt = now()
	w.UpdatedAt = w.CreatedAt

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO workouts (`+workoutColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.ID, w.UserID, w.Title, w.Type, exercises, w.Duration, w.TotalCaloriesBurned, w.Intensity,
		w.Mood.Before, w.Mood.After, w.Notes, w.IsCompleted, nullTime(w.ScheduledFor), w.CompletedAt,
		w.Source, w.SourceDevice, nullFloat(w.HeartRateAvg), nullFloat(w.HeartRateMax), nullFloat(w.Distance),
		nullInt(w.Steps), w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create workout: %w", err)
	}
	return nil
}

func (r *WorkoutRepository) Get(ctx context.Context, userID, id string) (*domain.Workout, error) {
	w, err := scanWorkout(r.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE id = ? AND user_id = ?`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workout: %w", err)
	}
	return w, nil
}

func (r *WorkoutRepository) List(ctx context.Context, userID string, f domain.WorkoutFilter) ([]domain.Workout, int, error) {
	var cond where
	cond.add("user_id = ?", userID)
	if f.Type != "" {
		cond.add("type = ?", f.Type)
	}
	if f.From != nil {
		cond.add("completed_at >= ?", *f.From)
	}
	if f.To != nil {
		cond.add("completed_at <= ?", *f.To)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`+cond.String(), cond.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count workouts: %w", err)
	}

	args := append(cond.args, f.Limit, f.Offset())
	workouts, err := r.query(ctx,
		`SELECT `+workoutColumns+` FROM workouts`+cond.String()+` ORDER BY completed_at DESC LIMIT ? OFFSET ?`,
		args...)
	if err != nil {
		return nil, 0, err
	}
	return workouts, total, nil
}

func (r *WorkoutRepository) Since(ctx context.Context, userID string, since time.Time) ([]domain.Workout, error) {
	return r.query(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = ? AND completed_at >= ? ORDER BY completed_at ASC`,
		userID, since)
}

func (r *WorkoutRepository) FindSynced(ctx context.Context, userID string, completedAt time.Time) (*domain.Workout, error) {
	w, err := scanWorkout(r.db.QueryRowContext(ctx,
		`SELECT `+workoutColumns+` FROM workouts WHERE user_id = ? AND completed_at = ? AND source = ? LIMIT 1`,
		userID, completedAt, domain.SourceWearable))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find synced workout: %w", err)
	}
	return w, nil
}

func (r *WorkoutRepository) Update(ctx context.Context, w *domain.Workout) error {
	exercises, err := encodeJSON(w.Exercises)
	if err != nil {
		return err
	}
	w.UpdatedAt = now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE workouts SET title = ?, type = ?, exercises = ?, duration = ?, total_calories_burned = ?,
		 intensity = ?, mood_before = ?, mood_after = ?, notes = ?, is_completed = ?, scheduled_for = ?,
		 completed_at = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		w.Title, w.Type, exercises, w.Duration, w.TotalCaloriesBurned,
		w.Intensity, w.Mood.Before, w.Mood.After, w.Notes, w.IsCompleted, nullTime(w.ScheduledFor),
		w.CompletedAt, w.UpdatedAt,
		w.ID, w.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update workout: %w", err)
	}
	return nil
}

func (r *WorkoutRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, r.db, "workouts", userID, id)
}

func (r *WorkoutRepository) query(ctx context.Context, query string, args ...any) ([]domain.Workout, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	workouts := []domain.Workout{}
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workout: %w", err)
		}
		workouts = append(workouts, *w)
	}
	return workouts, rows.Err()
}

func scanWorkout(row rowScanner) (*domain.Workout, error) {
	var (
		w            domain.Workout
		exercises    []byte
		scheduledFor sql.NullTime
		hrAvg, hrMax sql.NullFloat64
		distance     sql.NullFloat64
		steps        sql.NullInt64
	)
	err := row.Scan(
		&w.ID, &w.UserID, &w.Title, &w.Type, &exercises, &w.Duration, &w.TotalCaloriesBurned, &w.Intensity,
		&w.Mood.Before, &w.Mood.After, &w.Notes, &w.IsCompleted, &scheduledFor, &w.CompletedAt, &w.Source,
		&w.SourceDevice, &hrAvg, &hrMax, &distance, &steps, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.Exercises = []domain.Exercise{}
	if err := decodeJSON(exercises, &w.Exercises); err != nil {
		return nil, err
	}
	w.ScheduledFor = timePtr(scheduledFor)
	w.HeartRateAvg = floatPtr(hrAvg)
	w.HeartRateMax = floatPtr(hrMax)
	w.Distance = floatPtr(distance)
	if steps.Valid {
		n := int(steps.Int64)
		w.Steps = &n
	}
	return &w, nil
}

func nullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// deleteOwned removes one row of table owned by userID and reports whether a
// row matched.
func deleteOwned(ctx context.Context, db *sql.DB, table, userID, id string) (bool, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return n > 0, nil
}
