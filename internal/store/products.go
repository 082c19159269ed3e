// ABOUTME: Product entity store methods for the SQLite store
// ABOUTME: Listings are owned by a farmer or retailer via farmer_id

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const productColumns = `id, farmer_id, name, crop_type, soil_type, pesticides,
	harvest_date, use_before_date, location, additional_info,
	price, quantity, average_rating, image_url, created_at`

// CreateProduct inserts a new product listing.
func (s *SQLiteStore) CreateProduct(ctx context.Context, product *Product) error {
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		product.ID,
		product.FarmerID,
		product.Name,
		product.CropType,
		product.SoilType,
		product.Pesticides,
		product.HarvestDate,
		product.UseBeforeDate,
		product.Location,
		product.AdditionalInfo,
		product.Price,
		product.Quantity,
		product.AverageRating,
		product.ImageURL,
		product.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	s.logger.Debug("created product", "id", product.ID, "farmer_id", product.FarmerID, "name", product.Name)
	return nil
}

// GetProduct retrieves a product by ID. Returns ErrProductNotFound if absent.
func (s *SQLiteStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	return scanProduct(s.db.QueryRowContext(ctx, query, id))
}

// UpdateProduct replaces the mutable fields of an existing product.
// Ownership and average rating are not changed by this method.
func (s *SQLiteStore) UpdateProduct(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET name = ?, crop_type = ?, soil_type = ?, pesticides = ?,
			harvest_date = ?, use_before_date = ?, location = ?,
			additional_info = ?, price = ?, quantity = ?, image_url = ?
		WHERE id = ?
	`

	result, err := s.db.ExecContext(ctx, query,
		product.Name,
		product.CropType,
		product.SoilType,
		product.Pesticides,
		product.HarvestDate,
		product.UseBeforeDate,
		product.Location,
		product.AdditionalInfo,
		product.Price,
		product.Quantity,
		product.ImageURL,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("updating product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	s.logger.Debug("updated product", "id", product.ID)
	return nil
}

// DeleteProduct removes a product by ID. Returns ErrProductNotFound if absent.
func (s *SQLiteStore) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	s.logger.Debug("deleted product", "id", id)
	return nil
}

// ListProducts returns all products, newest first.
func (s *SQLiteStore) ListProducts(ctx context.Context) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return s.queryProducts(ctx, query)
}

// ListProductsByFarmer returns all products owned by the given user, newest first.
func (s *SQLiteStore) ListProductsByFarmer(ctx context.Context, farmerID string) ([]*Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE farmer_id = ? ORDER BY created_at DESC`
	return s.queryProducts(ctx, query, farmerID)
}

func (s *SQLiteStore) queryProducts(ctx context.Context, query string, args ...any) ([]*Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []*Product
	for rows.Next() {
		product, err := scanProductRow(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating product rows: %w", err)
	}

	return products, nil
}

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	var createdAt string

	err := row.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.CropType, &p.SoilType, &p.Pesticides,
		&p.HarvestDate, &p.UseBeforeDate, &p.Location, &p.AdditionalInfo,
		&p.Price, &p.Quantity, &p.AverageRating, &p.ImageURL, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying product: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = parsed
	}
	return &p, nil
}

func scanProductRow(rows *sql.Rows) (*Product, error) {
	var p Product
	var createdAt string

	err := rows.Scan(
		&p.ID, &p.FarmerID, &p.Name, &p.CropType, &p.SoilType, &p.Pesticides,
		&p.HarvestDate, &p.UseBeforeDate, &p.Location, &p.AdditionalInfo,
		&p.Price, &p.Quantity, &p.AverageRating, &p.ImageURL, &createdAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning product row: %w", err)
	}

	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		p.CreatedAt = parsed
	}
	return &p, nil
}
