package postgres

import (
	"context"
	"database/sql"

	"github.com/planbill/planbill/internal/domain/plan"
	"github.com/planbill/planbill/internal/pkg/errors"
)

// PlanRepository implements plan.Repository
type PlanRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *sql.DB) plan.Repository {
	return &PlanRepository{db: db}
}

// Create creates a new plan
func (r *PlanRepository) Create(ctx context.Context, p *plan.Plan) error {
	query := `INSERT INTO plans (name, price) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRowContext(ctx, query, p.Name, p.Price).Scan(&p.ID)
	if err != nil {
		return errors.DatabaseError("Failed to create plan", err)
	}

	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*plan.Plan, error) {
	query := `SELECT id, name, price FROM plans WHERE id = $1`

	var p plan.Plan
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Plan")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get plan", err)
	}

	return &p, nil
}

// Update overwrites name and price for an existing plan. No version
// check: concurrent updates race and the last write wins.
func (r *PlanRepository) Update(ctx context.Context, p *plan.Plan) error {
	query := `UPDATE plans SET name = $1, price = $2 WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, p.Name, p.Price, p.ID)
	if err != nil {
		return errors.DatabaseError("Failed to update plan", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.DatabaseError("Failed to get affected rows", err)
	}
	if rows == 0 {
		return errors.NotFound("Plan")
	}

	return nil
}

// List retrieves all plans with pagination
func (r *PlanRepository) List(ctx context.Context, limit, offset int) ([]*plan.Plan, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&total); err != nil {
		return nil, 0, errors.DatabaseError("Failed to count plans", err)
	}

	query := `SELECT id, name, price FROM plans ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, errors.DatabaseError("Failed to list plans", err)
	}
	defer rows.Close()

	var plans []*plan.Plan
	for rows.Next() {
		var p plan.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, 0, errors.DatabaseError("Failed to scan plan", err)
		}
		plans = append(plans, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.DatabaseError("Failed to iterate plans", err)
	}

	return plans, total, nil
}
