package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

type migration struct {
	version string
	sql     string
}

var migrations = []migration{
	{
		version: "001_create_users",
		sql: `
			CREATE TABLE IF NOT EXISTS users (
				id               CHAR(36) PRIMARY KEY,
				name             VARCHAR(50) NOT NULL,
				email            VARCHAR(255) NOT NULL UNIQUE,
				password_hash    VARCHAR(255) NOT NULL,
				avatar           VARCHAR(255) NOT NULL DEFAULT '',
				height           DOUBLE NOT NULL DEFAULT 0,
				weight           DOUBLE NOT NULL DEFAULT 0,
				age              INT NOT NULL DEFAULT 0,
				gender           VARCHAR(10) NOT NULL DEFAULT 'other',
				activity_level   VARCHAR(20) NOT NULL DEFAULT 'moderate',
				goal_weight      DOUBLE NOT NULL DEFAULT 0,
				fitness_goal     VARCHAR(20) NOT NULL DEFAULT 'maintain',
				notifications    BOOLEAN NOT NULL DEFAULT TRUE,
				dark_mode        BOOLEAN NOT NULL DEFAULT TRUE,
				units            VARCHAR(10) NOT NULL DEFAULT 'metric',
				wearable_user_id VARCHAR(100) NULL,
				created_at       DATETIME(3) NOT NULL,
				INDEX idx_users_wearable (wearable_user_id)
			)`,
	},
	{
		version: "002_create_password_reset_tokens",
		sql: `
			CREATE TABLE IF NOT EXISTS password_reset_tokens (
				id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
				user_id    CHAR(36) NOT NULL,
				token      CHAR(6) NOT NULL,
				expires_at DATETIME(3) NOT NULL,
				used       BOOLEAN NOT NULL DEFAULT FALSE,
				created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "003_create_workouts",
		sql: `
			CREATE TABLE IF NOT EXISTS workouts (
				id                    CHAR(36) PRIMARY KEY,
				user_id               CHAR(36) NOT NULL,
				title                 VARCHAR(100) NOT NULL,
				type                  VARCHAR(20) NOT NULL,
				exercises             JSON NOT NULL,
				duration              INT NOT NULL,
				total_calories_burned DOUBLE NOT NULL DEFAULT 0,
				intensity             VARCHAR(20) NOT NULL,
				mood_before           VARCHAR(20) NOT NULL DEFAULT '',
				mood_after            VARCHAR(20) NOT NULL DEFAULT '',
				notes                 TEXT NOT NULL,
				is_completed          BOOLEAN NOT NULL DEFAULT TRUE,
				scheduled_for         DATETIME(3) NULL,
				completed_at          DATETIME(3) NOT NULL,
				source                VARCHAR(20) NOT NULL DEFAULT 'manual',
				source_device         VARCHAR(100) NOT NULL DEFAULT '',
				heart_rate_avg        DOUBLE NULL,
				heart_rate_max        DOUBLE NULL,
				distance              DOUBLE NULL,
				steps                 INT NULL,
				created_at            DATETIME(3) NOT NULL,
				updated_at            DATETIME(3) NOT NULL,
				INDEX idx_workouts_user_completed (user_id, completed_at),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "004_create_meals",
		sql: `
			CREATE TABLE IF NOT EXISTS meals (
				id          CHAR(36) PRIMARY KEY,
				user_id     CHAR(36) NOT NULL,
				name        VARCHAR(100) NOT NULL,
				type        VARCHAR(20) NOT NULL,
				foods       JSON NOT NULL,
				calories    DOUBLE NOT NULL DEFAULT 0,
				protein     DOUBLE NOT NULL DEFAULT 0,
				carbs       DOUBLE NOT NULL DEFAULT 0,
				fat         DOUBLE NOT NULL DEFAULT 0,
				fiber       DOUBLE NOT NULL DEFAULT 0,
				sugar       DOUBLE NOT NULL DEFAULT 0,
				date        DATETIME(3) NOT NULL,
				time        VARCHAR(5) NOT NULL DEFAULT '',
				notes       TEXT NOT NULL,
				is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
				image_url   VARCHAR(500) NOT NULL DEFAULT '',
				created_at  DATETIME(3) NOT NULL,
				updated_at  DATETIME(3) NOT NULL,
				INDEX idx_meals_user_date (user_id, date),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "005_create_progress",
		sql: `
			CREATE TABLE IF NOT EXISTS progress (
				id                  CHAR(36) PRIMARY KEY,
				user_id             CHAR(36) NOT NULL,
				date                DATETIME(3) NOT NULL,
				weight              DOUBLE NOT NULL,
				body_measurements   JSON NOT NULL,
				body_fat_percentage DOUBLE NOT NULL DEFAULT 0,
				bmi                 DOUBLE NOT NULL DEFAULT 0,
				muscle_mass         DOUBLE NOT NULL DEFAULT 0,
				water_percentage    DOUBLE NOT NULL DEFAULT 0,
				notes               TEXT NOT NULL,
				photo_url           VARCHAR(500) NOT NULL DEFAULT '',
				energy_level        TINYINT NOT NULL DEFAULT 0,
				sleep_hours         DOUBLE NOT NULL DEFAULT 0,
				sleep_quality       VARCHAR(20) NOT NULL DEFAULT 'good',
				created_at          DATETIME(3) NOT NULL,
				updated_at          DATETIME(3) NOT NULL,
				INDEX idx_progress_user_date (user_id, date),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
	{
		version: "006_create_reminders",
		sql: `
			CREATE TABLE IF NOT EXISTS reminders (
				id             CHAR(36) PRIMARY KEY,
				user_id        CHAR(36) NOT NULL,
				title          VARCHAR(100) NOT NULL,
				description    TEXT NOT NULL,
				type           VARCHAR(20) NOT NULL,
				time           CHAR(5) NOT NULL,
				days           JSON NOT NULL,
				is_recurring   BOOLEAN NOT NULL DEFAULT TRUE,
				is_active      BOOLEAN NOT NULL DEFAULT TRUE,
				sound          VARCHAR(20) NOT NULL DEFAULT 'default',
				last_triggered DATETIME(3) NULL,
				next_trigger   DATETIME(3) NULL,
				icon           VARCHAR(16) NOT NULL,
				color          VARCHAR(16) NOT NULL,
				created_at     DATETIME(3) NOT NULL,
				updated_at     DATETIME(3) NOT NULL,
				INDEX idx_reminders_user_time (user_id, time),
				FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
			)`,
	},
}

// RunMigrations applies every migration not yet recorded in
// schema_migrations, each inside its own transaction.
func RunMigrations(ctx context.Context, db *sql.DB, log logrus.FieldLogger) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    VARCHAR(255) PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		applied, err := isMigrationApplied(ctx, db, m.version)
		if err != nil {
			return err
		}
		if applied {
			continue
		}

		if err := executeMigration(ctx, db, m); err != nil {
			return err
		}

		log.WithField("version", m.version).Info("applied migration")
	}

	return nil
}

func isMigrationApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var count int
	err := db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schema_migrations WHERE version = ?",
		version,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", version, err)
	}
	return count > 0, nil
}

func executeMigration(ctx context.Context, db *sql.DB, m migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for %s: %w", m.version, err)
	}

	for _, stmt := range strings.Split(m.sql, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to execute migration %s: %w", m.version, err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version) VALUES (?)",
		m.version,
	); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to record migration %s: %w", m.version, err)
	}

	return tx.Commit()
}
