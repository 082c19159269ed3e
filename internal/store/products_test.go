// ABOUTME: Tests for product store methods
// ABOUTME: Covers CRUD, ownership listing, and update semantics

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFarmer inserts a farmer user and returns its ID.
func createTestFarmer(t *testing.T, store *SQLiteStore, email string) string {
	t.Helper()
	user := &User{Name: "Farmer", Email: email, PasswordHash: "h", Role: RoleFarmer}
	require.NoError(t, store.CreateUser(context.Background(), user))
	return user.ID
}

func TestCreateAndGetProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	farmerID := createTestFarmer(t, store, "p1@farmchainx.com")

	product := &Product{
		FarmerID:    farmerID,
		Name:        "Alphonso Mangoes",
		CropType:    "Fruit",
		SoilType:    "Loamy",
		HarvestDate: "2026-05-01",
		Location:    "Ratnagiri",
		Price:       120.50,
		Quantity:    40,
	}
	require.NoError(t, store.CreateProduct(ctx, product))
	require.NotEmpty(t, product.ID)

	got, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alphonso Mangoes", got.Name)
	assert.Equal(t, farmerID, got.FarmerID)
	assert.Equal(t, 120.50, got.Price)
	assert.Equal(t, 40, got.Quantity)
	assert.Zero(t, got.AverageRating)
}

func TestGetProduct_NotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestUpdateProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	farmerID := createTestFarmer(t, store, "p2@farmchainx.com")

	product := &Product{FarmerID: farmerID, Name: "Tomatoes", CropType: "Vegetable", Price: 30, Quantity: 100}
	require.NoError(t, store.CreateProduct(ctx, product))

	product.Name = "Cherry Tomatoes"
	product.Price = 45
	product.Quantity = 80
	require.NoError(t, store.UpdateProduct(ctx, product))

	got, err := store.GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cherry Tomatoes", got.Name)
	assert.Equal(t, 45.0, got.Price)
	assert.Equal(t, 80, got.Quantity)
	// Ownership never changes on update
	assert.Equal(t, farmerID, got.FarmerID)

	missing := &Product{ID: "missing", Name: "x"}
	assert.ErrorIs(t, store.UpdateProduct(ctx, missing), ErrProductNotFound)
}

func TestDeleteProduct(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	farmerID := createTestFarmer(t, store, "p3@farmchainx.com")

	product := &Product{FarmerID: farmerID, Name: "Onions", Quantity: 10}
	require.NoError(t, store.CreateProduct(ctx, product))

	require.NoError(t, store.DeleteProduct(ctx, product.ID))
	_, err := store.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)

	assert.ErrorIs(t, store.DeleteProduct(ctx, product.ID), ErrProductNotFound)
}

func TestListProductsByFarmer(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	aliceID := createTestFarmer(t, store, "alice@farmchainx.com")
	bobID := createTestFarmer(t, store, "bob@farmchainx.com")

	for _, name := range []string{"Wheat", "Rice"} {
		require.NoError(t, store.CreateProduct(ctx, &Product{FarmerID: aliceID, Name: name}))
	}
	require.NoError(t, store.CreateProduct(ctx, &Product{FarmerID: bobID, Name: "Corn"}))

	mine, err := store.ListProductsByFarmer(ctx, aliceID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
