package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/domain/user"
	"github.com/planbill/planbill/internal/pkg/errors"
)

// UserRepository implements user.Repository
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) user.Repository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `
		INSERT INTO users (email, name, password_hash, email_verified, is_admin, locale, timezone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.Name, u.PasswordHash, u.EmailVerified, u.IsAdmin, u.Locale, u.Timezone, now, now,
	).Scan(&u.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	return nil
}

// CreateWithPersonalTeam creates the user and their personal team in
// one transaction. Either both rows exist afterwards or neither does.
func (r *UserRepository) CreateWithPersonalTeam(ctx context.Context, u *user.User, personal *team.Team) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	err = tx.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash, email_verified, is_admin, locale, timezone, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		u.Email, u.Name, u.PasswordHash, u.EmailVerified, u.IsAdmin, u.Locale, u.Timezone, now, now,
	).Scan(&u.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create user", err)
	}

	personal.IsPersonal = true
	personal.UserID = u.ID
	personal.CreatedAt = now
	personal.UpdatedAt = now

	err = tx.QueryRowContext(ctx,
		`INSERT INTO teams (name, is_personal, user_id, created_at, updated_at)
		 VALUES ($1, TRUE, $2, $3, $4)
		 RETURNING id`,
		personal.Name, u.ID, now, now,
	).Scan(&personal.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create personal team", err)
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("Failed to commit registration", err)
	}

	return nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, email_verified, is_admin, locale, timezone, created_at, updated_at
		FROM users WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `
		SELECT id, email, name, password_hash, email_verified, is_admin, locale, timezone, created_at, updated_at
		FROM users WHERE email = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) scanOne(row *sql.Row) (*user.User, error) {
	var u user.User
	var passwordHash, timezone sql.NullString

	err := row.Scan(
		&u.ID, &u.Email, &u.Name, &passwordHash, &u.EmailVerified, &u.IsAdmin,
		&u.Locale, &timezone, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("User")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get user", err)
	}

	if passwordHash.Valid {
		u.PasswordHash = &passwordHash.String
	}
	if timezone.Valid {
		u.Timezone = &timezone.String
	}

	return &u, nil
}

// Update updates a user
func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	u.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET email = $1, name = $2, email_verified = $3, locale = $4, timezone = $5, updated_at = $6
		WHERE id = $7
	`

	result, err := r.db.ExecContext(ctx, query,
		u.Email, u.Name, u.EmailVerified, u.Locale, u.Timezone, u.UpdatedAt, u.ID,
	)
	if err != nil {
		return errors.DatabaseError("Failed to update user", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// SetAdmin flips the admin flag for a user
func (r *UserRepository) SetAdmin(ctx context.Context, id int64, isAdmin bool) error {
	query := `UPDATE users SET is_admin = $1, updated_at = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, isAdmin, time.Now(), id)
	if err != nil {
		return errors.DatabaseError("Failed to set admin flag", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("User")
	}

	return nil
}

// List retrieves all users with pagination
func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]*user.User, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count users", err)
	}

	query := `
		SELECT id, email, name, password_hash, email_verified, is_admin, locale, timezone, created_at, updated_at
		FROM users ORDER BY id LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list users", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		var u user.User
		var passwordHash, timezone sql.NullString
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Name, &passwordHash, &u.EmailVerified, &u.IsAdmin,
			&u.Locale, &timezone, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan user", err)
		}
		if passwordHash.Valid {
			u.PasswordHash = &passwordHash.String
		}
		if timezone.Valid {
			u.Timezone = &timezone.String
		}
		users = append(users, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate users", err)
	}

	return users, total, nil
}
