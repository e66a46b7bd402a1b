package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/yusufkecer/fittrack-backend/internal/domain"
)

type ResetTokenRepository struct {
	db *sql.DB
}

var _ ResetTokenStore = (*ResetTokenRepository)(nil)

func NewResetTokenRepository(db *sql.DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?, ?, ?)`,
		userID, token, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) GetValid(ctx context.Context, email, token string, now time.Time) (*domain.PasswordResetToken, error) {
	var t domain.PasswordResetToken
	err := r.db.QueryRowContext(ctx, `
		SELECT prt.id, prt.user_id, prt.token, prt.expires_at, prt.used
		FROM password_reset_tokens prt
		JOIN users u ON u.id = prt.user_id
		WHERE u.email = ? AND prt.token = ? AND prt.used = 0 AND prt.expires_at > ?
		ORDER BY prt.id DESC
		LIMIT 1`,
		email, token, now,
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Used)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}
	return &t, nil
}

func (r *ResetTokenRepository) MarkUsed(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE password_reset_tokens SET used = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark token as used: %w", err)
	}
	return nil
}

func (r *ResetTokenRepository) DeleteByUserID(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete old tokens: %w", err)
	}
	return nil
}
