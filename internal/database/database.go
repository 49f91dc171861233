// Copyright (c) 2025, aragorn2909.
// SPDX-License-Identifier: GPL-2.0-or-later

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/aragorn2909/media-dashboard/internal/models"
)

// DB represents the database connection
type DB struct {
	*sql.DB
	driver string
	path   string

	squirrel sq.StatementBuilderType
}

// Config holds database configuration
type Config struct {
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	Path     string // For SQLite
}

// NewConfig creates a new database configuration from environment variables
func NewConfig() *Config {
	dbType := os.Getenv("MEDIADASH__DB_TYPE")
	if dbType == "" {
		dbType = "sqlite" // Default to SQLite
	}

	config := &Config{
		Driver: dbType,
	}

	if dbType == "postgres" {
		config.Host = getEnv("MEDIADASH__DB_HOST", "localhost")
		config.Port = getEnv("MEDIADASH__DB_PORT", "5432")
		config.User = getEnv("MEDIADASH__DB_USER", "mediadash")
		config.Password = getEnv("MEDIADASH__DB_PASSWORD", "mediadash")
		config.DBName = getEnv("MEDIADASH__DB_NAME", "mediadash")
	} else {
		config.Path = getEnv("MEDIADASH__DB_PATH", "./data/media-dashboard.db")
	}

	return config
}

// InitDB initializes the database connection and performs migrations
func InitDB(dbPath string) (*DB, error) {
	config := NewConfig()
	if config.Driver == "sqlite" && dbPath != "" {
		config.Path = dbPath
	}
	return InitDBWithConfig(config)
}

// InitDBWithConfig initializes the database with the provided configuration
func InitDBWithConfig(config *Config) (*DB, error) {
	var (
		database *sql.DB
		err      error
	)

	maxRetries := 5
	baseDelay := time.Second

	var placeholder sq.PlaceholderFormat = sq.Question

	if config.Driver == "postgres" {
		placeholder = sq.Dollar

		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			config.Host, config.Port, config.User, config.Password, config.DBName)
		log.Debug().
			Str("host", config.Host).
			Str("port", config.Port).
			Str("database", config.DBName).
			Msg("Initializing PostgreSQL database")

		// Retry loop with linear backoff
		for attempt := 1; attempt <= maxRetries; attempt++ {
			database, err = sql.Open("postgres", dsn)
			if err == nil {
				err = database.Ping()
				if err == nil {
					break
				}
			}

			if attempt == maxRetries {
				return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", maxRetries, err)
			}

			delay := time.Duration(attempt) * baseDelay
			log.Debug().
				Int("attempt", attempt).
				Dur("delay", delay).
				Msg("Retrying database connection")
			time.Sleep(delay)
		}
	} else {
		dbDir := filepath.Dir(config.Path)
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, err
		}

		database, err = sql.Open("sqlite", config.Path)
		if err != nil {
			return nil, fmt.Errorf("error opening database: %w", err)
		}

		// Force SQLite to create the database file by pinging it
		if err := database.Ping(); err != nil {
			return nil, fmt.Errorf("error creating database file: %w", err)
		}

		if err := os.Chmod(config.Path, 0640); err != nil {
			return nil, fmt.Errorf("error setting database file permissions: %w", err)
		}
		log.Debug().
			Str("path", config.Path).
			Msg("Initializing SQLite database")
	}

	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(25)
	database.SetConnMaxLifetime(5 * time.Minute)

	log.Info().
		Str("driver", config.Driver).
		Msg("Successfully connected to database")

	db := &DB{
		DB:       database,
		driver:   config.Driver,
		path:     config.Path,
		squirrel: sq.StatementBuilder.PlaceholderFormat(placeholder),
	}

	if err := db.initSchema(); err != nil {
		return nil, fmt.Errorf("error initializing schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path (for SQLite)
func (db *DB) Path() string {
	return db.path
}

// initSchema creates the necessary database tables
func (db *DB) initSchema() error {
	var autoIncrement string
	if db.driver == "postgres" {
		autoIncrement = "SERIAL"
	} else {
		autoIncrement = "INTEGER"
	}

	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS dashboard_settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS audit_logs (
			id %s PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			service TEXT NOT NULL,
			action TEXT NOT NULL,
			details TEXT
		)`, autoIncrement))
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS login_events (
			id %s PRIMARY KEY,
			timestamp TIMESTAMP NOT NULL,
			username TEXT NOT NULL,
			success BOOLEAN NOT NULL,
			remote_addr TEXT
		)`, autoIncrement))
	if err != nil {
		return err
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS users (
			id %s PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`, autoIncrement))
	if err != nil {
		return err
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// Settings Functions

// GetSetting retrieves a single settings value. A missing key returns an
// empty string with no error.
func (db *DB) GetSetting(ctx context.Context, key string) (string, error) {
	query, args, err := db.squirrel.
		Select("value").
		From("dashboard_settings").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return "", err
	}

	var value string
	err = db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return value, nil
}

// SetSetting upserts a single settings value.
func (db *DB) SetSetting(ctx context.Context, key, value string) error {
	query, args, err := db.squirrel.
		Insert("dashboard_settings").
		Columns("key", "value").
		Values(key, value).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// LoadDashboardConfig reads every settings row and assembles the dashboard
// configuration. Unknown keys are ignored; missing keys stay empty.
func (db *DB) LoadDashboardConfig(ctx context.Context) (*models.DashboardConfig, error) {
	query, args, err := db.squirrel.
		Select("key", "value").
		From("dashboard_settings").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The config's JSON tags are the settings keys, so the map round-trips
	// through JSON into the struct.
	data, err := json.Marshal(settings)
	if err != nil {
		return nil, err
	}

	var config models.DashboardConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

// SaveDashboardConfig persists the full dashboard configuration, one
// settings row per field.
func (db *DB) SaveDashboardConfig(ctx context.Context, config *models.DashboardConfig) error {
	data, err := json.Marshal(config)
	if err != nil {
		return err
	}

	var settings map[string]string
	if err := json.Unmarshal(data, &settings); err != nil {
		return err
	}

	for key, value := range settings {
		if err := db.SetSetting(ctx, key, value); err != nil {
			return err
		}
	}

	return nil
}

// Audit Functions

// LogAudit appends one row to the audit trail.
func (db *DB) LogAudit(ctx context.Context, service, action, details string) error {
	query, args, err := db.squirrel.
		Insert("audit_logs").
		Columns("timestamp", "service", "action", "details").
		Values(time.Now().UTC(), service, action, details).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// RecentAuditLogs returns the newest audit rows, most recent first.
func (db *DB) RecentAuditLogs(ctx context.Context, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := db.squirrel.
		Select("id", "timestamp", "service", "action", "details").
		From("audit_logs").
		OrderBy("id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []models.AuditLog{}
	for rows.Next() {
		var entry models.AuditLog
		var ts time.Time
		var details sql.NullString

		if err := rows.Scan(&entry.ID, &ts, &entry.Service, &entry.Action, &details); err != nil {
			return nil, err
		}

		entry.Timestamp = ts.UTC().Format(time.RFC3339)
		entry.Details = details.String
		logs = append(logs, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return logs, nil
}

// LogLogin records one login attempt, successful or not.
func (db *DB) LogLogin(ctx context.Context, username string, success bool, remoteAddr string) error {
	query, args, err := db.squirrel.
		Insert("login_events").
		Columns("timestamp", "username", "success", "remote_addr").
		Values(time.Now().UTC(), username, success, remoteAddr).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// User Management Functions

// HasUsers checks if any users exist in the database
func (db *DB) HasUsers(ctx context.Context) (bool, error) {
	query, args, err := db.squirrel.
		Select("COUNT(*)").
		From("users").
		ToSql()
	if err != nil {
		return false, err
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateUser creates a new user in the database
func (db *DB) CreateUser(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()

	queryBuilder := db.squirrel.
		Insert("users").
		Columns("username", "password_hash", "created_at", "updated_at").
		Values(user.Username, user.PasswordHash, now, now).
		Suffix("RETURNING id").
		RunWith(db.DB)

	if err := queryBuilder.QueryRowContext(ctx).Scan(&user.ID); err != nil {
		return errors.Wrap(err, "error executing query")
	}

	return nil
}

// FindUser retrieves a user by username. A missing user returns nil with no
// error.
func (db *DB) FindUser(ctx context.Context, username string) (*models.User, error) {
	query, args, err := db.squirrel.
		Select("id", "username", "password_hash").
		From("users").
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var user models.User
	err = db.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.Username, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// UpdateUserPassword updates a user's password hash and updated_at timestamp
func (db *DB) UpdateUserPassword(ctx context.Context, userID int64, newPasswordHash string) error {
	query, args, err := db.squirrel.
		Update("users").
		Set("password_hash", newPasswordHash).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}
