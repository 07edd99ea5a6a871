package postgres

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/tagwerk-app/reminder-service/config"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	// Read migration files and execute them
	// This is a simplified version - you might want to use a proper migration tool
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS notification_settings (
			user_id VARCHAR(64) PRIMARY KEY,
			phone_number VARCHAR(20),
			timezone VARCHAR(64) NOT NULL DEFAULT 'UTC',
			task_start_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			weekly_review_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			task_start_template TEXT,
			weekly_review_template TEXT,
			weekly_send_time VARCHAR(5) NOT NULL DEFAULT '19:00',
			week_starts_monday BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS projects (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tasks (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			due_at TIMESTAMPTZ,
			priority VARCHAR(10) NOT NULL DEFAULT 'none',
			status VARCHAR(20) NOT NULL DEFAULT 'open',
			project_id VARCHAR(64) REFERENCES projects(id),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS task_projects (
			task_id VARCHAR(64) NOT NULL REFERENCES tasks(id),
			project_id VARCHAR(64) NOT NULL REFERENCES projects(id),
			PRIMARY KEY (task_id, project_id)
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			progress INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS deliveries (
			id VARCHAR(64) PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL,
			channel VARCHAR(20) NOT NULL,
			event_key VARCHAR(255) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,

		// The unique pair is what makes delivery at-most-once: a second
		// reservation for the same logical event must be rejected by the
		// database, not by application logic.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_deliveries_channel_event_key ON deliveries(channel, event_key)`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_id ON tasks(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_user_due ON tasks(user_id, due_at)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_user_id ON deliveries(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_deliveries_status ON deliveries(status)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %v", err)
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
