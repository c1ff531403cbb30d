package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/planbill/planbill/internal/domain/subscription"
	"github.com/planbill/planbill/internal/pkg/errors"
)

// SubscriptionRepository implements subscription.Repository
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *sql.DB) subscription.Repository {
	return &SubscriptionRepository{db: db}
}

// Activate deactivates any active subscription for the team and
// inserts a new active one, with its activation audit row and an
// unpaid order, in a single transaction. The transaction serializes
// the read-then-write so at most one subscription per team is active;
// the partial unique index on (team_id) WHERE is_active backstops it.
func (r *SubscriptionRepository) Activate(ctx context.Context, teamID, planID int64) (*subscription.Subscription, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.DatabaseError("Failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now()

	_, err = tx.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = FALSE, updated_at = $1 WHERE team_id = $2 AND is_active`,
		now, teamID,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to deactivate prior subscription", err)
	}

	sub := &subscription.Subscription{
		TeamID:    teamID,
		PlanID:    planID,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO subscriptions (team_id, plan_id, is_active, created_at, updated_at)
		 VALUES ($1, $2, TRUE, $3, $4) RETURNING id`,
		teamID, planID, now, now,
	).Scan(&sub.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create subscription", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO subscription_activations (subscription_id, activation_date) VALUES ($1, $2)`,
		sub.ID, now,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to record activation", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (subscription_id, paid, created_at) VALUES ($1, FALSE, $2)`,
		sub.ID, now,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create order", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.DatabaseError("Failed to commit activation", err)
	}

	return sub, nil
}

// DeactivateActive clears the active flag on the team's active
// subscription. The single UPDATE makes cancellation one-shot: a
// concurrent activation either commits before it and gets cancelled,
// or after it and stays active.
func (r *SubscriptionRepository) DeactivateActive(ctx context.Context, teamID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE subscriptions SET is_active = FALSE, updated_at = $1 WHERE team_id = $2 AND is_active`,
		time.Now(), teamID,
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to deactivate subscription", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

// GetByID retrieves a subscription by ID
func (r *SubscriptionRepository) GetByID(ctx context.Context, id int64) (*subscription.Subscription, error) {
	query := `
		SELECT id, team_id, plan_id, is_active, created_at, updated_at
		FROM subscriptions WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetActiveByTeam retrieves the team's active subscription
func (r *SubscriptionRepository) GetActiveByTeam(ctx context.Context, teamID int64) (*subscription.Subscription, error) {
	query := `
		SELECT id, team_id, plan_id, is_active, created_at, updated_at
		FROM subscriptions WHERE team_id = $1 AND is_active
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, teamID))
}

func (r *SubscriptionRepository) scanOne(row *sql.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := row.Scan(&s.ID, &s.TeamID, &s.PlanID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Subscription")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get subscription", err)
	}
	return &s, nil
}

// ListByTeam retrieves all subscriptions for a team
func (r *SubscriptionRepository) ListByTeam(ctx context.Context, teamID int64) ([]*subscription.Subscription, error) {
	query := `
		SELECT id, team_id, plan_id, is_active, created_at, updated_at
		FROM subscriptions WHERE team_id = $1 ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list subscriptions", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(&s.ID, &s.TeamID, &s.PlanID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate subscriptions", err)
	}

	return subs, nil
}

// CreateOrder opens a new unpaid order for a subscription
func (r *SubscriptionRepository) CreateOrder(ctx context.Context, subscriptionID int64) (*subscription.Order, error) {
	now := time.Now()
	o := &subscription.Order{
		SubscriptionID: subscriptionID,
		Paid:           false,
		CreatedAt:      now,
	}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO orders (subscription_id, paid, created_at) VALUES ($1, FALSE, $2) RETURNING id`,
		subscriptionID, now,
	).Scan(&o.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to create order", err)
	}

	return o, nil
}

// GetOrderByID retrieves an order by ID
func (r *SubscriptionRepository) GetOrderByID(ctx context.Context, id int64) (*subscription.Order, error) {
	var o subscription.Order
	err := r.db.QueryRowContext(ctx,
		`SELECT id, subscription_id, paid, created_at FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.SubscriptionID, &o.Paid, &o.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("Order")
	}
	if err != nil {
		return nil, errors.DatabaseError("Failed to get order", err)
	}
	return &o, nil
}

// MarkOrderPaid marks an unpaid order as paid. The WHERE clause keeps
// the transition one-way: a paid order is never touched again.
func (r *SubscriptionRepository) MarkOrderPaid(ctx context.Context, id int64) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE orders SET paid = TRUE WHERE id = $1 AND NOT paid`, id,
	)
	if err != nil {
		return 0, errors.DatabaseError("Failed to mark order paid", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, errors.DatabaseError("Failed to get affected rows", err)
	}

	return rows, nil
}

// ListOrders retrieves all orders for a subscription
func (r *SubscriptionRepository) ListOrders(ctx context.Context, subscriptionID int64) ([]*subscription.Order, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subscription_id, paid, created_at FROM orders WHERE subscription_id = $1 ORDER BY id`,
		subscriptionID,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list orders", err)
	}
	defer rows.Close()

	var orders []*subscription.Order
	for rows.Next() {
		var o subscription.Order
		if err := rows.Scan(&o.ID, &o.SubscriptionID, &o.Paid, &o.CreatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan order", err)
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate orders", err)
	}

	return orders, nil
}

// ListActivations retrieves the activation audit trail for a
// subscription
func (r *SubscriptionRepository) ListActivations(ctx context.Context, subscriptionID int64) ([]*subscription.Activation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, subscription_id, activation_date FROM subscription_activations
		 WHERE subscription_id = $1 ORDER BY id`,
		subscriptionID,
	)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list activations", err)
	}
	defer rows.Close()

	var activations []*subscription.Activation
	for rows.Next() {
		var a subscription.Activation
		if err := rows.Scan(&a.ID, &a.SubscriptionID, &a.ActivationDate); err != nil {
			return nil, errors.DatabaseError("Failed to scan activation", err)
		}
		activations = append(activations, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate activations", err)
	}

	return activations, nil
}

// ListActiveDue retrieves active subscriptions whose most recent
// order is older than the cutoff
func (r *SubscriptionRepository) ListActiveDue(ctx context.Context, cutoff time.Time) ([]*subscription.Subscription, error) {
	query := `
		SELECT s.id, s.team_id, s.plan_id, s.is_active, s.created_at, s.updated_at
		FROM subscriptions s
		WHERE s.is_active
		  AND (SELECT MAX(o.created_at) FROM orders o WHERE o.subscription_id = s.id) < $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, errors.DatabaseError("Failed to list due subscriptions", err)
	}
	defer rows.Close()

	var subs []*subscription.Subscription
	for rows.Next() {
		var s subscription.Subscription
		if err := rows.Scan(&s.ID, &s.TeamID, &s.PlanID, &s.IsActive, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, errors.DatabaseError("Failed to scan subscription", err)
		}
		subs = append(subs, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError("Failed to iterate subscriptions", err)
	}

	return subs, nil
}
