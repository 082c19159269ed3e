// ABOUTME: Store interfaces and data types for farmchainx persistence
// ABOUTME: Defines User, Product, Rating, Purchase structs and store contracts

package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUserNotFound is returned when a requested user does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("email already exists")

// ErrProductNotFound is returned when a requested product does not exist.
var ErrProductNotFound = errors.New("product not found")

// ErrRatingNotFound is returned when a requested rating does not exist.
var ErrRatingNotFound = errors.New("rating not found")

// ErrDuplicateRating is returned when a user rates the same product twice.
var ErrDuplicateRating = errors.New("product already rated by this user")

// ErrInsufficientStock is returned when a purchase exceeds available quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// Role represents a user's role in the marketplace.
type Role string

const (
	RoleFarmer   Role = "FARMER"
	RoleCustomer Role = "CUSTOMER"
	RoleRetailer Role = "RETAILER"
	RoleAdmin    Role = "ADMIN"
)

// ValidRoles lists all assignable roles.
var ValidRoles = []Role{RoleFarmer, RoleCustomer, RoleRetailer, RoleAdmin}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

// ParseRole converts a string to a Role, accepting any casing.
func ParseRole(s string) (Role, error) {
	for _, v := range ValidRoles {
		if string(v) == s || string(v) == normalizeRoleString(s) {
			return v, nil
		}
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

func normalizeRoleString(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// User represents a registered marketplace account. PasswordHash is a bcrypt
// hash; the plaintext is never stored.
type User struct {
	ID           string
	Name         string
	Email        string // unique, stored lowercase
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// Product represents a crop listing owned by a farmer or retailer.
type Product struct {
	ID             string
	FarmerID       string
	Name           string
	CropType       string
	SoilType       string
	Pesticides     string
	HarvestDate    string // YYYY-MM-DD, empty if unset
	UseBeforeDate  string // YYYY-MM-DD, empty if unset
	Location       string
	AdditionalInfo string
	Price          float64
	Quantity       int
	AverageRating  float64 // maintained by rating writes, 1-decimal rounding
	ImageURL       string
	CreatedAt      time.Time
}

// Rating represents a single user's review of a product.
// One rating per (product, user) pair.
type Rating struct {
	ID        string
	ProductID string
	UserID    string
	Stars     int // 1..5
	Comment   string
	CreatedAt time.Time
}

// Purchase represents a completed order for a product.
type Purchase struct {
	ID          string
	ProductID   string
	UserID      string
	Quantity    int
	TotalAmount float64
	CreatedAt   time.Time
}

// Activity is an append-only feed entry describing a marketplace event.
type Activity struct {
	ID        string
	Type      string // registration, purchase, rating, product
	UserName  string
	Role      string
	Action    string
	Product   string
	Amount    string
	Rating    string
	Status    string
	CreatedAt time.Time
}

// UserStats aggregates user counts by role.
type UserStats struct {
	Total     int
	Farmers   int
	Customers int
	Retailers int
	Admins    int
}

// ProductAnalytics aggregates listings by crop type.
type ProductAnalytics struct {
	CropType      string
	Count         int
	TotalQuantity int
	AverageRating float64
}

// PurchaseAnalytics aggregates orders by calendar month.
type PurchaseAnalytics struct {
	Month   string // YYYY-MM
	Orders  int
	Revenue float64
}

// UserStore defines user persistence operations.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int, error)
}

// ProductStore defines product persistence operations.
type ProductStore interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProduct(ctx context.Context, id string) (*Product, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListProducts(ctx context.Context) ([]*Product, error)
	ListProductsByFarmer(ctx context.Context, farmerID string) ([]*Product, error)
}

// RatingStore defines rating persistence operations. CreateRating also
// recomputes the product's average rating in the same transaction.
type RatingStore interface {
	CreateRating(ctx context.Context, rating *Rating) error
	GetRating(ctx context.Context, id string) (*Rating, error)
	DeleteRating(ctx context.Context, id string) error
	ListRatingsByProduct(ctx context.Context, productID string) ([]*Rating, error)
}

// PurchaseStore defines purchase persistence operations. CreatePurchase
// decrements product stock in the same transaction.
type PurchaseStore interface {
	CreatePurchase(ctx context.Context, purchase *Purchase) error
	ListPurchasesByUser(ctx context.Context, userID string) ([]*Purchase, error)
}

// ActivityStore defines the append-only activity feed.
type ActivityStore interface {
	AppendActivity(ctx context.Context, activity *Activity) error
	ListActivities(ctx context.Context, limit int) ([]*Activity, error)
}

// StatsStore defines admin aggregation queries.
type StatsStore interface {
	GetUserStats(ctx context.Context) (*UserStats, error)
	GetProductAnalytics(ctx context.Context) ([]*ProductAnalytics, error)
	GetPurchaseAnalytics(ctx context.Context) ([]*PurchaseAnalytics, error)
}

// Store is the full persistence contract consumed by the API server.
type Store interface {
	UserStore
	ProductStore
	RatingStore
	PurchaseStore
	ActivityStore
	StatsStore

	// Close releases any resources held by the store
	Close() error
}
