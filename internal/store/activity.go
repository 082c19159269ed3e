// ABOUTME: Append-only activity feed for the admin dashboard
// ABOUTME: Records registrations, purchases, ratings, and product changes

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Activity types.
const (
	ActivityRegistration = "registration"
	ActivityPurchase     = "purchase"
	ActivityRating       = "rating"
	ActivityProduct      = "product"
)

// AppendActivity records an activity entry. Entries are never updated or
// deleted; the feed is the admin dashboard's audit trail.
func (s *SQLiteStore) AppendActivity(ctx context.Context, activity *Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO activities (id, type, user_name, role, action, product, amount, rating, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		activity.ID,
		activity.Type,
		activity.UserName,
		activity.Role,
		activity.Action,
		activity.Product,
		activity.Amount,
		activity.Rating,
		activity.Status,
		activity.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting activity: %w", err)
	}

	return nil
}

// ListActivities returns the most recent activity entries, newest first.
// A non-positive limit defaults to 50.
func (s *SQLiteStore) ListActivities(ctx context.Context, limit int) ([]*Activity, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, type, user_name, role, action, product, amount, rating, status, created_at
		FROM activities
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var activities []*Activity
	for rows.Next() {
		var a Activity
		var createdAt string
		if err := rows.Scan(&a.ID, &a.Type, &a.UserName, &a.Role, &a.Action, &a.Product, &a.Amount, &a.Rating, &a.Status, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			a.CreatedAt = parsed
		}
		activities = append(activities, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}

	return activities, nil
}
