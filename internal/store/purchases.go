// ABOUTME: Purchase entity store methods for the SQLite store
// ABOUTME: Purchase writes decrement product stock in the same transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreatePurchase records an order and decrements the product's stock
// atomically. TotalAmount is computed from the product's current price when
// the caller leaves it zero. Returns ErrProductNotFound if the product does
// not exist and ErrInsufficientStock if the requested quantity exceeds stock.
func (s *SQLiteStore) CreatePurchase(ctx context.Context, purchase *Purchase) error {
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}
	if purchase.Quantity <= 0 {
		return fmt.Errorf("purchase quantity must be positive")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stock int
	var price float64
	err = tx.QueryRowContext(ctx, `SELECT quantity, price FROM products WHERE id = ?`, purchase.ProductID).
		Scan(&stock, &price)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrProductNotFound
	}
	if err != nil {
		return fmt.Errorf("querying product stock: %w", err)
	}

	if stock < purchase.Quantity {
		return ErrInsufficientStock
	}

	if purchase.TotalAmount == 0 {
		purchase.TotalAmount = price * float64(purchase.Quantity)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO purchases (id, product_id, user_id, quantity, total_amount, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		purchase.ID,
		purchase.ProductID,
		purchase.UserID,
		purchase.Quantity,
		purchase.TotalAmount,
		purchase.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting purchase: %w", err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE products SET quantity = quantity - ? WHERE id = ?`,
		purchase.Quantity, purchase.ProductID)
	if err != nil {
		return fmt.Errorf("decrementing stock: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing purchase: %w", err)
	}

	s.logger.Debug("created purchase",
		"id", purchase.ID,
		"product_id", purchase.ProductID,
		"quantity", purchase.Quantity,
		"total", purchase.TotalAmount,
	)
	return nil
}

// ListPurchasesByUser returns all purchases made by a user, newest first.
func (s *SQLiteStore) ListPurchasesByUser(ctx context.Context, userID string) ([]*Purchase, error) {
	query := `
		SELECT id, product_id, user_id, quantity, total_amount, created_at
		FROM purchases
		WHERE user_id = ?
		ORDER BY created_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("querying purchases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var purchases []*Purchase
	for rows.Next() {
		var p Purchase
		var createdAt string
		if err := rows.Scan(&p.ID, &p.ProductID, &p.UserID, &p.Quantity, &p.TotalAmount, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning purchase row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
			p.CreatedAt = parsed
		}
		purchases = append(purchases, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating purchase rows: %w", err)
	}

	return purchases, nil
}
