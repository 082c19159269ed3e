// ABOUTME: Role-based access policy mapping operations to permitted roles
// ABOUTME: Fail-closed: unknown roles and unknown operations are denied

package auth

import (
	"github.com/farmchainx/farmchainx/internal/store"
)

// Operation is a category of protected actions. Authorization is decided per
// category, not per endpoint, so adding an endpoint to an existing category
// needs no policy change.
type Operation string

const (
	// OpSelfService covers actions on the caller's own account and data.
	OpSelfService Operation = "self-service"
	// OpManageProducts covers creating, updating, and deleting product listings.
	OpManageProducts Operation = "manage-products"
	// OpRateProducts covers submitting and deleting product ratings.
	OpRateProducts Operation = "rate-products"
	// OpPurchase covers placing orders.
	OpPurchase Operation = "purchase"
	// OpAdmin covers user administration, analytics, and the activity feed.
	OpAdmin Operation = "admin"
)

// Policy decides whether a role may perform an operation. The grant table is
// fixed at construction; there is no way to widen it at runtime.
type Policy struct {
	grants map[Operation]map[store.Role]bool
}

// NewPolicy returns the marketplace access policy:
//
//	self-service     all roles
//	manage-products  FARMER, RETAILER, ADMIN
//	rate-products    CUSTOMER, ADMIN
//	purchase         CUSTOMER, RETAILER, ADMIN
//	admin            ADMIN
func NewPolicy() *Policy {
	return &Policy{
		grants: map[Operation]map[store.Role]bool{
			OpSelfService: {
				store.RoleFarmer:   true,
				store.RoleCustomer: true,
				store.RoleRetailer: true,
				store.RoleAdmin:    true,
			},
			OpManageProducts: {
				store.RoleFarmer:   true,
				store.RoleRetailer: true,
				store.RoleAdmin:    true,
			},
			OpRateProducts: {
				store.RoleCustomer: true,
				store.RoleAdmin:    true,
			},
			OpPurchase: {
				store.RoleCustomer: true,
				store.RoleRetailer: true,
				store.RoleAdmin:    true,
			},
			OpAdmin: {
				store.RoleAdmin: true,
			},
		},
	}
}

// Allowed reports whether the role may perform the operation. Anything not
// explicitly granted is denied, including roles and operations the table has
// never heard of.
func (p *Policy) Allowed(role store.Role, op Operation) bool {
	roles, ok := p.grants[op]
	if !ok {
		return false
	}
	return roles[role]
}
