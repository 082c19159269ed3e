// ABOUTME: Rating entity store methods for the SQLite store
// ABOUTME: Rating writes recompute the product's average in the same transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateRating inserts a rating and updates the product's average rating
// atomically. Returns ErrProductNotFound if the product does not exist and
// ErrDuplicateRating if the user already rated this product.
func (s *SQLiteStore) CreateRating(ctx context.Context, rating *Rating) error {
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE id = ?`, rating.ProductID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking product: %w", err)
	}
	if exists == 0 {
		return ErrProductNotFound
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ratings (id, product_id, user_id, stars, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		rating.ID,
		rating.ProductID,
		rating.UserID,
		rating.Stars,
		rating.Comment,
		rating.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicateRating
		}
		return fmt.Errorf("inserting rating: %w", err)
	}

	if err := updateAverageRating(ctx, tx, rating.ProductID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rating: %w", err)
	}

	s.logger.Debug("created rating", "id", rating.ID, "product_id", rating.ProductID, "stars", rating.Stars)
	return nil
}

// GetRating retrieves a rating by ID. Returns ErrRatingNotFound if absent.
func (s *SQLiteStore) GetRating(ctx context.Context, id string) (*Rating, error) {
	query := `
		SELECT id, product_id, user_id, stars, comment, created_at
		FROM ratings
		WHERE id = ?
	`

	var r Rating
	var createdAt string
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.Stars, &r.Comment, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying rating: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		r.CreatedAt = parsed
	}
	return &r, nil
}

// DeleteRating removes a rating and recomputes the product's average.
// Returns ErrRatingNotFound if absent.
func (s *SQLiteStore) DeleteRating(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var productID string
	err = tx.QueryRowContext(ctx, `SELECT product_id FROM ratings WHERE id = ?`, id).Scan(&productID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRatingNotFound
	}
	if err != nil {
		return fmt.Errorf("querying rating: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ratings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting rating: %w", err)
	}

	if err := updateAverageRating(ctx, tx, productID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing rating delete: %w", err)
	}

	s.logger.Debug("deleted rating", "id", id, "product_id", productID)
	return nil
}

// ListRatingsByProduct returns all ratings for a product, newest first.
func (s *SQLiteStore) ListRatingsByProduct(ctx context.Context, productID string) ([]*Rating, error) {
	query := `
		SELECT id, product_id, user_id, stars, comment, created_at
		FROM ratings
		WHERE product_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("querying ratings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ratings []*Rating
	for rows.Next() {
		var r Rating
		var createdAt string
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Stars, &r.Comment, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning rating row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			r.CreatedAt = parsed
		}
		ratings = append(ratings, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rating rows: %w", err)
	}

	return ratings, nil
}

// updateAverageRating recomputes products.average_rating from the surviving
// ratings, rounded to one decimal. Zero when no ratings remain.
func updateAverageRating(ctx context.Context, tx *sql.Tx, productID string) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE products
		SET average_rating = COALESCE(
			(SELECT ROUND(AVG(stars), 1) FROM ratings WHERE product_id = ?), 0)
		WHERE id = ?
	`, productID, productID)
	if err != nil {
		return fmt.Errorf("updating average rating: %w", err)
	}
	return nil
}
