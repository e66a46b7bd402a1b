package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const progressColumns = `id, user_id, date, weight, body_measurements, body_fat_percentage, bmi,
	muscle_mass, water_percentage, notes, photo_url, energy_level, sleep_hours, sleep_quality,
	created_at, updated_at`

type ProgressRepository struct {
	db *sql.DB
}

var _ ProgressStore = (*ProgressRepository)(nil)

func NewProgressRepository(db *sql.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

func (r *ProgressRepository) Create(ctx context.Context, p *domain.Progress) error {
	measurements, err := encodeJSON(p.BodyMeasurements)
	if err != nil {
		return err
	}
	p.ID = newID()
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO progress (`+progressColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.Date, p.Weight, measurements, p.BodyFatPercentage, p.BMI,
		p.MuscleMass, p.WaterPercentage, p.Notes, p.PhotoURL, p.EnergyLevel, p.SleepHours, p.SleepQuality,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create progress entry: %w", err)
	}
	return nil
}

func (r *ProgressRepository) Get(ctx context.Context, userID, id string) (*domain.Progress, error) {
	p, err := scanProgress(r.db.QueryRowContext(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE id = ? AND user_id = ?`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress entry: %w", err)
	}
	return p, nil
}

func (r *ProgressRepository) List(ctx context.Context, userID string, page domain.Page) ([]domain.Progress, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM progress WHERE user_id = ?`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count progress entries: %w", err)
	}

	entries, err := r.query(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? ORDER BY date DESC LIMIT ? OFFSET ?`,
		userID, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

func (r *ProgressRepository) Since(ctx context.Context, userID string, since time.Time) ([]domain.Progress, error) {
	return r.query(ctx,
		`SELECT `+progressColumns+` FROM progress WHERE user_id = ? AND date >= ? ORDER BY date ASC`,
		userID, since)
}

func (r *ProgressRepository) Update(ctx context.Context, p *domain.Progress) error {
	measurements, err := encodeJSON(p.BodyMeasurements)
	if err != nil {
		return err
	}
	p.UpdatedAt = now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE progress SET weight = ?, body_measurements = ?, body_fat_percentage = ?, bmi = ?,
		 muscle_mass = ?, water_percentage = ?, notes = ?, photo_url = ?, energy_level = ?,
		 sleep_hours = ?, sleep_quality = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		p.Weight, measurements, p.BodyFatPercentage, p.BMI,
		p.MuscleMass, p.WaterPercentage, p.Notes, p.PhotoURL, p.EnergyLevel,
		p.SleepHours, p.SleepQuality, p.UpdatedAt,
		p.ID, p.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update progress entry: %w", err)
	}
	return nil
}

func (r *ProgressRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, r.db, "progress", userID, id)
}

func (r *ProgressRepository) query(ctx context.Context, query string, args ...any) ([]domain.Progress, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.Progress{}
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan progress entry: %w", err)
		}
		entries = append(entries, *p)
	}
	return entries, rows.Err()
}

func scanProgress(row rowScanner) (*domain.Progress, error) {
	var p domain.Progress
	var measurements []byte
	err := row.Scan(
		&p.ID, &p.UserID, &p.Date, &p.Weight, &measurements, &p.BodyFatPercentage, &p.BMI,
		&p.MuscleMass, &p.WaterPercentage, &p.Notes, &p.PhotoURL, &p.EnergyLevel, &p.SleepHours, &p.SleepQuality,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(measurements, &p.BodyMeasurements); err != nil {
		return nil, err
	}
	return &p, nil
}
