// ABOUTME: Mock Store implementation for testing
// ABOUTME: Allows tests to run without SQLite

package store

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockStore is an in-memory Store implementation for testing.
type MockStore struct {
	mu         sync.RWMutex
	users      map[string]*User    // keyed by user ID
	emailIndex map[string]string   // keyed by email -> user ID
	products   map[string]*Product // keyed by product ID
	ratings    map[string]*Rating  // keyed by rating ID
	purchases  []*Purchase
	activities []*Activity
}

// NewMockStore creates a new MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		users:      make(map[string]*User),
		emailIndex: make(map[string]string),
		products:   make(map[string]*Product),
		ratings:    make(map[string]*Rating),
	}
}

// CreateUser stores a new user, enforcing email uniqueness.
func (m *MockStore) CreateUser(ctx context.Context, user *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.emailIndex[user.Email]; exists {
		return ErrDuplicateEmail
	}

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	// Make a copy to avoid external modification
	u := *user
	m.users[u.ID] = &u
	m.emailIndex[u.Email] = u.ID
	return nil
}

// GetUser retrieves a user by ID.
func (m *MockStore) GetUser(ctx context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

// GetUserByEmail retrieves a user by normalized email.
func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *m.users[id]
	return &copied, nil
}

// ListUsers returns all users ordered by creation time.
func (m *MockStore) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		copied := *u
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.Before(users[j].CreatedAt) })
	return users, nil
}

// DeleteUser removes a user and its email index entry.
func (m *MockStore) DeleteUser(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	delete(m.emailIndex, u.Email)
	delete(m.users, id)
	return nil
}

// CountUsers returns the number of stored users.
func (m *MockStore) CountUsers(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users), nil
}

// CreateProduct stores a new product.
func (m *MockStore) CreateProduct(ctx context.Context, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = time.Now().UTC()
	}

	p := *product
	m.products[p.ID] = &p
	return nil
}

// GetProduct retrieves a product by ID.
func (m *MockStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	copied := *p
	return &copied, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (m *MockStore) UpdateProduct(ctx context.Context, product *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}

	existing.Name = product.Name
	existing.CropType = product.CropType
	existing.SoilType = product.SoilType
	existing.Pesticides = product.Pesticides
	existing.HarvestDate = product.HarvestDate
	existing.UseBeforeDate = product.UseBeforeDate
	existing.Location = product.Location
	existing.AdditionalInfo = product.AdditionalInfo
	existing.Price = product.Price
	existing.Quantity = product.Quantity
	existing.ImageURL = product.ImageURL
	return nil
}

// DeleteProduct removes a product and its ratings.
func (m *MockStore) DeleteProduct(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(m.products, id)
	for rid, r := range m.ratings {
		if r.ProductID == id {
			delete(m.ratings, rid)
		}
	}
	return nil
}

// ListProducts returns all products, newest first.
func (m *MockStore) ListProducts(ctx context.Context) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listProductsLocked(func(*Product) bool { return true }), nil
}

// ListProductsByFarmer returns products owned by the given user, newest first.
func (m *MockStore) ListProductsByFarmer(ctx context.Context, farmerID string) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listProductsLocked(func(p *Product) bool { return p.FarmerID == farmerID }), nil
}

func (m *MockStore) listProductsLocked(match func(*Product) bool) []*Product {
	var products []*Product
	for _, p := range m.products {
		if match(p) {
			copied := *p
			products = append(products, &copied)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].CreatedAt.After(products[j].CreatedAt) })
	return products
}

// CreateRating stores a rating and recomputes the product average.
func (m *MockStore) CreateRating(ctx context.Context, rating *Rating) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[rating.ProductID]; !ok {
		return ErrProductNotFound
	}
	for _, r := range m.ratings {
		if r.ProductID == rating.ProductID && r.UserID == rating.UserID {
			return ErrDuplicateRating
		}
	}

	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	if rating.CreatedAt.IsZero() {
		rating.CreatedAt = time.Now().UTC()
	}

	r := *rating
	m.ratings[r.ID] = &r
	m.recomputeAverageLocked(r.ProductID)
	return nil
}

// GetRating retrieves a rating by ID.
func (m *MockStore) GetRating(ctx context.Context, id string) (*Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, ok := m.ratings[id]
	if !ok {
		return nil, ErrRatingNotFound
	}
	copied := *r
	return &copied, nil
}

// DeleteRating removes a rating and recomputes the product average.
func (m *MockStore) DeleteRating(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.ratings[id]
	if !ok {
		return ErrRatingNotFound
	}
	delete(m.ratings, id)
	m.recomputeAverageLocked(r.ProductID)
	return nil
}

// ListRatingsByProduct returns ratings for a product, newest first.
func (m *MockStore) ListRatingsByProduct(ctx context.Context, productID string) ([]*Rating, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var ratings []*Rating
	for _, r := range m.ratings {
		if r.ProductID == productID {
			copied := *r
			ratings = append(ratings, &copied)
		}
	}
	sort.Slice(ratings, func(i, j int) bool { return ratings[i].CreatedAt.After(ratings[j].CreatedAt) })
	return ratings, nil
}

func (m *MockStore) recomputeAverageLocked(productID string) {
	p, ok := m.products[productID]
	if !ok {
		return
	}
	var sum, count int
	for _, r := range m.ratings {
		if r.ProductID == productID {
			sum += r.Stars
			count++
		}
	}
	if count == 0 {
		p.AverageRating = 0
		return
	}
	p.AverageRating = math.Round(float64(sum)/float64(count)*10) / 10
}

// CreatePurchase records a purchase and decrements product stock.
func (m *MockStore) CreatePurchase(ctx context.Context, purchase *Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[purchase.ProductID]
	if !ok {
		return ErrProductNotFound
	}
	if p.Quantity < purchase.Quantity {
		return ErrInsufficientStock
	}

	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	if purchase.CreatedAt.IsZero() {
		purchase.CreatedAt = time.Now().UTC()
	}
	if purchase.TotalAmount == 0 {
		purchase.TotalAmount = p.Price * float64(purchase.Quantity)
	}

	p.Quantity -= purchase.Quantity
	copied := *purchase
	m.purchases = append(m.purchases, &copied)
	return nil
}

// ListPurchasesByUser returns purchases made by a user, newest first.
func (m *MockStore) ListPurchasesByUser(ctx context.Context, userID string) ([]*Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var purchases []*Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			copied := *p
			purchases = append(purchases, &copied)
		}
	}
	sort.Slice(purchases, func(i, j int) bool { return purchases[i].CreatedAt.After(purchases[j].CreatedAt) })
	return purchases, nil
}

// AppendActivity records an activity entry.
func (m *MockStore) AppendActivity(ctx context.Context, activity *Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}

	copied := *activity
	m.activities = append(m.activities, &copied)
	return nil
}

// ListActivities returns the most recent activity entries, newest first.
func (m *MockStore) ListActivities(ctx context.Context, limit int) ([]*Activity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	activities := make([]*Activity, 0, len(m.activities))
	for _, a := range m.activities {
		copied := *a
		activities = append(activities, &copied)
	}
	sort.Slice(activities, func(i, j int) bool { return activities[i].CreatedAt.After(activities[j].CreatedAt) })
	if len(activities) > limit {
		activities = activities[:limit]
	}
	return activities, nil
}

// GetUserStats returns user counts by role.
func (m *MockStore) GetUserStats(ctx context.Context) (*UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := &UserStats{Total: len(m.users)}
	for _, u := range m.users {
		switch u.Role {
		case RoleFarmer:
			stats.Farmers++
		case RoleCustomer:
			stats.Customers++
		case RoleRetailer:
			stats.Retailers++
		case RoleAdmin:
			stats.Admins++
		}
	}
	return stats, nil
}

// GetProductAnalytics returns per-crop-type aggregates.
func (m *MockStore) GetProductAnalytics(ctx context.Context) ([]*ProductAnalytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byCrop := make(map[string]*ProductAnalytics)
	ratingSums := make(map[string]float64)
	ratingCounts := make(map[string]int)

	for _, p := range m.products {
		a, ok := byCrop[p.CropType]
		if !ok {
			a = &ProductAnalytics{CropType: p.CropType}
			byCrop[p.CropType] = a
		}
		a.Count++
		a.TotalQuantity += p.Quantity
		if p.AverageRating > 0 {
			ratingSums[p.CropType] += p.AverageRating
			ratingCounts[p.CropType]++
		}
	}

	analytics := make([]*ProductAnalytics, 0, len(byCrop))
	for crop, a := range byCrop {
		if n := ratingCounts[crop]; n > 0 {
			a.AverageRating = math.Round(ratingSums[crop]/float64(n)*10) / 10
		}
		analytics = append(analytics, a)
	}
	sort.Slice(analytics, func(i, j int) bool {
		if analytics[i].Count != analytics[j].Count {
			return analytics[i].Count > analytics[j].Count
		}
		return analytics[i].CropType < analytics[j].CropType
	})
	return analytics, nil
}

// GetPurchaseAnalytics returns per-month order aggregates.
func (m *MockStore) GetPurchaseAnalytics(ctx context.Context) ([]*PurchaseAnalytics, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byMonth := make(map[string]*PurchaseAnalytics)
	for _, p := range m.purchases {
		month := p.CreatedAt.UTC().Format("2006-01")
		a, ok := byMonth[month]
		if !ok {
			a = &PurchaseAnalytics{Month: month}
			byMonth[month] = a
		}
		a.Orders++
		a.Revenue += p.TotalAmount
	}

	analytics := make([]*PurchaseAnalytics, 0, len(byMonth))
	for _, a := range byMonth {
		analytics = append(analytics, a)
	}
	sort.Slice(analytics, func(i, j int) bool { return analytics[i].Month < analytics[j].Month })
	return analytics, nil
}

// Close is a no-op for the mock store.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements Store.
var _ Store = (*MockStore)(nil)
