package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/planbill/planbill/internal/domain/team"
	"github.com/planbill/planbill/internal/pkg/errors"
)

// TeamRepository implements team.Repository
type TeamRepository struct {
	db *sql.DB
}

// NewTeamRepository creates a new team repository
func NewTeamRepository(db *sql.DB) team.Repository {
	return &TeamRepository{db: db}
}

// Create creates a new team
func (r *TeamRepository) Create(ctx context.Context, t *team.Team) error {
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `
		INSERT INTO teams (name, is_personal, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		t.Name, t.IsPersonal, t.UserID, now, now,
	).Scan(&t.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create team", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *TeamRepository) GetByID(ctx context.Context, id int64) (*team.Team, error) {
	query := `
		SELECT id, name, is_personal, user_id, created_at, updated_at
		FROM teams WHERE id = $1
	`

	var t team.Team
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.IsPersonal, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Team")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get team", err)
	}

	return &t, nil
}

// GetPersonal retrieves a user's personal team
func (r *TeamRepository) GetPersonal(ctx context.Context, userID int64) (*team.Team, error) {
	query := `
		SELECT id, name, is_personal, user_id, created_at, updated_at
		FROM teams WHERE user_id = $1 AND is_personal
	`

	var t team.Team
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&t.ID, &t.Name, &t.IsPersonal, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Team")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get personal team", err)
	}

	return &t, nil
}

// ListByUser retrieves all teams owned by a user
func (r *TeamRepository) ListByUser(ctx context.Context, userID int64) ([]*team.Team, error) {
	query := `
		SELECT id, name, is_personal, user_id, created_at, updated_at
		FROM teams WHERE user_id = $1 ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list teams", err)
	}
	defer rows.Close()

	var teams []*team.Team
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(
			&t.ID, &t.Name, &t.IsPersonal, &t.UserID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, errors.DatabaseError("Failed to scan team", err)
		}
		teams = append(teams, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate teams", err)
	}

	return teams, nil
}

// Delete removes a team. The restrict foreign key on subscriptions
// makes the database reject the delete while references remain; only
// that rejection is a Conflict, anything else is a database failure.
func (r *TeamRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.Conflict("Team is still referenced by subscriptions")
		}
		return errors.DatabaseError("Failed to delete team", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Team")
	}

	return nil
}
