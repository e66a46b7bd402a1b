package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

const reminderColumns = `id, user_id, title, description, type, time, days, is_recurring, is_active,
	sound, last_triggered, next_trigger, icon, color, created_at, updated_at`

type ReminderRepository struct {
	db *sql.DB
}

var _ ReminderStore = (*ReminderRepository)(nil)

func NewReminderRepository(db *sql.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, rem *domain.Reminder) error {
	days, err := encodeJSON(rem.Days)
	if err != nil {
		return err
	}
	rem.ID = newID()
	rem.CreatedAt = now()
	rem.UpdatedAt = rem.CreatedAt

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO reminders (`+reminderColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rem.ID, rem.UserID, rem.Title, rem.Description, rem.Type, rem.Time, days, rem.IsRecurring, rem.IsActive,
		rem.Sound, nullTime(rem.LastTriggered), nullTime(rem.NextTrigger), rem.Icon, rem.Color,
		rem.CreatedAt, rem.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Get(ctx context.Context, userID, id string) (*domain.Reminder, error) {
	rem, err := scanReminder(r.db.QueryRowContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ? AND user_id = ?`, id, userID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reminder: %w", err)
	}
	return rem, nil
}

// List returns the user's reminders ordered by time of day. A non-nil active
// restricts the result to reminders with that state.
func (r *ReminderRepository) List(ctx context.Context, userID string, active *bool) ([]domain.Reminder, error) {
	var cond where
	cond.add("user_id = ?", userID)
	if active != nil {
		cond.add("is_active = ?", *active)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reminderColumns+` FROM reminders`+cond.String()+` ORDER BY time ASC`, cond.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	defer rows.Close()

	reminders := []domain.Reminder{}
	for rows.Next() {
		rem, err := scanReminder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, *rem)
	}
	return reminders, rows.Err()
}

func (r *ReminderRepository) Update(ctx context.Context, rem *domain.Reminder) error {
	days, err := encodeJSON(rem.Days)
	if err != nil {
		return err
	}
	rem.UpdatedAt = now()

	_, err = r.db.ExecContext(ctx,
		`UPDATE reminders SET title = ?, description = ?, type = ?, time = ?, days = ?, is_recurring = ?,
		 is_active = ?, sound = ?, last_triggered = ?, next_trigger = ?, icon = ?, color = ?, updated_at = ?
		 WHERE id = ? AND user_id = ?`,
		rem.Title, rem.Description, rem.Type, rem.Time, days, rem.IsRecurring,
		rem.IsActive, rem.Sound, nullTime(rem.LastTriggered), nullTime(rem.NextTrigger), rem.Icon, rem.Color,
		rem.UpdatedAt,
		rem.ID, rem.UserID,
	)
	if err != nil {
		return fmt.Errorf("failed to update reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	return deleteOwned(ctx, r.db, "reminders", userID, id)
}

func scanReminder(row rowScanner) (*domain.Reminder, error) {
	var (
		rem           domain.Reminder
		days          []byte
		lastTriggered sql.NullTime
		nextTrigger   sql.NullTime
	)
	err := row.Scan(
		&rem.ID, &rem.UserID, &rem.Title, &rem.Description, &rem.Type, &rem.Time, &days, &rem.IsRecurring,
		&rem.IsActive, &rem.Sound, &lastTriggered, &nextTrigger, &rem.Icon, &rem.Color,
		&rem.CreatedAt, &rem.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rem.Days = []string{}
	if err := decodeJSON(days, &rem.Days); err != nil {
		return nil, err
	}
	rem.LastTriggered = timePtr(lastTriggered)
	rem.NextTrigger = timePtr(nextTrigger)
	return &rem, nil
}
