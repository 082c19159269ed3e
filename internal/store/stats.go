// ABOUTME: Admin aggregation queries for user, product, and purchase analytics
// ABOUTME: Aggregates real rows only, no fabricated sample series

package store

import (
	"context"
	"fmt"
)

// GetUserStats returns user counts broken down by role.
func (s *SQLiteStore) GetUserStats(ctx context.Context) (*UserStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN role = 'FARMER' THEN 1 END),
			COUNT(CASE WHEN role = 'CUSTOMER' THEN 1 END),
			COUNT(CASE WHEN role = 'RETAILER' THEN 1 END),
			COUNT(CASE WHEN role = 'ADMIN' THEN 1 END)
		FROM users
	`

	var stats UserStats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Farmers,
		&stats.Customers,
		&stats.Retailers,
		&stats.Admins,
	)
	if err != nil {
		return nil, fmt.Errorf("querying user stats: %w", err)
	}

	return &stats, nil
}

// GetProductAnalytics returns per-crop-type listing counts, total quantity,
// and average rating across rated listings.
func (s *SQLiteStore) GetProductAnalytics(ctx context.Context) ([]*ProductAnalytics, error) {
	query := `
		SELECT crop_type, COUNT(*), COALESCE(SUM(quantity), 0),
			COALESCE(ROUND(AVG(CASE WHEN average_rating > 0 THEN average_rating END), 1), 0)
		FROM products
		GROUP BY crop_type
		ORDER BY COUNT(*) DESC, crop_type
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying product analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var analytics []*ProductAnalytics
	for rows.Next() {
		var a ProductAnalytics
		if err := rows.Scan(&a.CropType, &a.Count, &a.TotalQuantity, &a.AverageRating); err != nil {
			return nil, fmt.Errorf("scanning product analytics row: %w", err)
		}
		analytics = append(analytics, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product analytics rows: %w", err)
	}

	return analytics, nil
}

// GetPurchaseAnalytics returns order counts and revenue grouped by calendar
// month (YYYY-MM), oldest first.
func (s *SQLiteStore) GetPurchaseAnalytics(ctx context.Context) ([]*PurchaseAnalytics, error) {
	query := `
		SELECT substr(created_at, 1, 7), COUNT(*), COALESCE(SUM(total_amount), 0)
		FROM purchases
		GROUP BY substr(created_at, 1, 7)
		ORDER BY substr(created_at, 1, 7)
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying purchase analytics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var analytics []*PurchaseAnalytics
	for rows.Next() {
		var a PurchaseAnalytics
		if err := rows.Scan(&a.Month, &a.Orders, &a.Revenue); err != nil {
			return nil, fmt.Errorf("scanning purchase analytics row: %w", err)
		}
		analytics = append(analytics, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase analytics rows: %w", err)
	}

	return analytics, nil
}
