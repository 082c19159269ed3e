// Package api implements the marketplace REST API.
//
// # Route Table
//
// Public:
//
//	GET  /healthz
//	POST /api/auth/register
//	POST /api/auth/login
//	GET  /api/products
//	GET  /api/products/{id}
//	GET  /api/products/{id}/ratings
//
// Authenticated (bearer token):
//
//	GET    /api/users/me                      all roles
//	GET    /api/purchases/mine                all roles
//	POST   /api/products                      FARMER, RETAILER, ADMIN
//	PUT    /api/products/{id}                 owner or ADMIN
//	DELETE /api/products/{id}                 owner or ADMIN
//	GET    /api/products/my-products          FARMER, RETAILER, ADMIN
//	POST   /api/products/{id}/ratings         CUSTOMER, ADMIN
//	DELETE /api/ratings/{id}                  author or ADMIN
//	POST   /api/purchases                     CUSTOMER, RETAILER, ADMIN
//	GET    /api/admin/*                       ADMIN
//
// # Error Shape
//
// Every error response is a JSON object with a single "error" field. Token
// problems are collapsed into one generic 401 message; a store outage is a
// 503 so clients can distinguish "retry later" from "re-authenticate".
//
// # Activity Feed
//
// Registrations, listings, ratings, and purchases append entries to the
// activity feed after they commit. Recording is best-effort: a feed write
// failure is logged but never fails the request.
package api
