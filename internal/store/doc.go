// Package store provides persistent storage for farmchainx using SQLite.
//
// # Architecture
//
// The store package uses an interface-driven architecture with specialized
// interfaces:
//
//   - UserStore: Accounts with bcrypt password hashes and roles
//   - ProductStore: Crop listings owned by farmers and retailers
//   - RatingStore: Product reviews with maintained averages
//   - PurchaseStore: Orders with transactional stock decrements
//   - ActivityStore: Append-only activity feed for the admin dashboard
//   - StatsStore: Aggregation queries for admin analytics
//
// SQLiteStore implements all interfaces in a single struct, allowing easy
// composition while maintaining clear interface boundaries. Store is the
// aggregate interface consumed by the API server.
//
// # Invariants
//
//   - users.email is unique; CreateUser maps violations to ErrDuplicateEmail,
//     so concurrent registrations of one email produce exactly one row.
//   - products.average_rating is recomputed inside the same transaction as
//     any rating insert or delete, rounded to one decimal.
//   - Purchases decrement product stock in the same transaction and fail with
//     ErrInsufficientStock rather than oversell.
//   - One rating per (product, user) pair, enforced by a unique index.
//
// # SQLite Configuration
//
// The store uses SQLite with WAL mode for concurrent reads:
//
//	PRAGMA journal_mode=WAL;
//	PRAGMA foreign_keys=ON;
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	st := store.NewMockStore()
//	// st implements the full Store interface
//
// Use NewSQLiteStore(":memory:") for integration tests with real SQLite.
package store
