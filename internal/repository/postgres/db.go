package postgres

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/planbill/planbill/internal/config"
)

// foreignKeyViolation is the postgres error code raised when a delete
// would orphan referencing rows.
const foreignKeyViolation = "23503"

// isForeignKeyViolation reports whether err is a postgres restrict
// foreign key failure, unwrapping AppError layers on the way.
func isForeignKeyViolation(err error) bool {
	for err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return pqErr.Code == foreignKeyViolation
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// New creates a new database connection
func New(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
