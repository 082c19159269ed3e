// ABOUTME: HTTP server wiring for the marketplace REST API
// ABOUTME: Builds the route table with auth middleware and policy gates

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/farmchainx/farmchainx/internal/auth"
	"github.com/farmchainx/farmchainx/internal/store"
)

// Server hosts the marketplace REST API.
type Server struct {
	store  store.Store
	auth   *auth.Service
	policy *auth.Policy
	codec  *auth.TokenCodec
	logger *slog.Logger
}

// NewServer creates an API server. A nil logger falls back to slog.Default.
func NewServer(st store.Store, authSvc *auth.Service, codec *auth.TokenCodec, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  st,
		auth:   authSvc,
		policy: auth.NewPolicy(),
		codec:  codec,
		logger: logger.With("component", "api"),
	}
}

// Routes builds the full route table. Public endpoints are mounted bare;
// everything else goes through the bearer-token middleware and, where the
// policy requires it, an operation gate.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	authed := auth.Middleware(s.store, s.codec, s.logger)
	selfService := auth.RequireOperation(s.policy, auth.OpSelfService)
	manageProducts := auth.RequireOperation(s.policy, auth.OpManageProducts)
	rateProducts := auth.RequireOperation(s.policy, auth.OpRateProducts)
	purchase := auth.RequireOperation(s.policy, auth.OpPurchase)
	admin := auth.RequireOperation(s.policy, auth.OpAdmin)

	// Health and auth endpoints are public
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	// Product catalog is public read
	mux.HandleFunc("GET /api/products", s.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", s.handleGetProduct)
	mux.HandleFunc("GET /api/products/{id}/ratings", s.handleListRatings)

	// Authenticated self-service
	mux.Handle("GET /api/users/me", authed(selfService(http.HandlerFunc(s.handleMe))))
	mux.Handle("GET /api/purchases/mine", authed(selfService(http.HandlerFunc(s.handleListPurchases))))

	// Product management
	mux.Handle("POST /api/products", authed(manageProducts(http.HandlerFunc(s.handleCreateProduct))))
	mux.Handle("PUT /api/products/{id}", authed(manageProducts(http.HandlerFunc(s.handleUpdateProduct))))
	mux.Handle("DELETE /api/products/{id}", authed(manageProducts(http.HandlerFunc(s.handleDeleteProduct))))
	mux.Handle("GET /api/products/my-products", authed(manageProducts(http.HandlerFunc(s.handleMyProducts))))

	// Ratings and purchases
	mux.Handle("POST /api/products/{id}/ratings", authed(rateProducts(http.HandlerFunc(s.handleCreateRating))))
	mux.Handle("DELETE /api/ratings/{id}", authed(rateProducts(http.HandlerFunc(s.handleDeleteRating))))
	mux.Handle("POST /api/purchases", authed(purchase(http.HandlerFunc(s.handleCreatePurchase))))

	// Admin surface
	mux.Handle("GET /api/admin/users", authed(admin(http.HandlerFunc(s.handleAdminListUsers))))
	mux.Handle("DELETE /api/admin/users/{id}", authed(admin(http.HandlerFunc(s.handleAdminDeleteUser))))
	mux.Handle("GET /api/admin/users/stats", authed(admin(http.HandlerFunc(s.handleAdminStats))))
	mux.Handle("GET /api/admin/analytics/products", authed(admin(http.HandlerFunc(s.handleAdminProductAnalytics))))
	mux.Handle("GET /api/admin/analytics/purchases", authed(admin(http.HandlerFunc(s.handleAdminPurchaseAnalytics))))
	mux.Handle("GET /api/admin/activity", authed(admin(http.HandlerFunc(s.handleAdminActivity))))

	return mux
}

// handleHealth handles GET /healthz requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// sendJSON writes a JSON response with the given status code.
func (s *Server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}

// sendJSONError writes a JSON error response with the given status code.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// decodeJSON decodes a request body, rejecting unknown fields. Returns false
// after writing the error response if decoding failed.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// recordActivity appends an audit entry. Failures are logged, never surfaced:
// the triggering operation has already committed.
func (s *Server) recordActivity(r *http.Request, entry *store.Activity) {
	if err := s.store.AppendActivity(r.Context(), entry); err != nil {
		s.logger.Warn("recording activity", "type", entry.Type, "error", err)
	}
}
