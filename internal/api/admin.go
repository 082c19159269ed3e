// ABOUTME: HTTP handlers for the admin surface: user management and analytics
// ABOUTME: All endpoints here sit behind the admin policy gate

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/farmchainx/farmchainx/internal/store"
)

// UserStatsResponse is the JSON response for GET /api/admin/users/stats.
type UserStatsResponse struct {
	Total     int `json:"total"`
	Farmers   int `json:"farmers"`
	Customers int `json:"customers"`
	Retailers int `json:"retailers"`
	Admins    int `json:"admins"`
}

// ProductAnalyticsResponse is one row of GET /api/admin/analytics/products.
type ProductAnalyticsResponse struct {
	CropType      string  `json:"crop_type"`
	Count         int     `json:"count"`
	TotalQuantity int     `json:"total_quantity"`
	AverageRating float64 `json:"average_rating"`
}

// PurchaseAnalyticsResponse is one row of GET /api/admin/analytics/purchases.
type PurchaseAnalyticsResponse struct {
	Month   string  `json:"month"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// ActivityResponse is one entry of GET /api/admin/activity.
type ActivityResponse struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	UserName  string `json:"user_name"`
	Role      string `json:"role,omitempty"`
	Action    string `json:"action"`
	Product   string `json:"product,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Rating    string `json:"rating,omitempty"`
	Status    string `json:"status,omitempty"`
	CreatedAt string `json:"created_at"`
}

// handleAdminListUsers handles GET /api/admin/users requests.
func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		s.logger.Error("listing users", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleAdminDeleteUser handles DELETE /api/admin/users/{id} requests.
// Deleting an account invalidates its outstanding tokens: the middleware
// resolves every token subject against the store.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("deleting user", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAdminStats handles GET /api/admin/users/stats requests.
func (s *Server) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.GetUserStats(r.Context())
	if err != nil {
		s.logger.Error("computing user stats", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	s.sendJSON(w, http.StatusOK, UserStatsResponse{
		Total:     stats.Total,
		Farmers:   stats.Farmers,
		Customers: stats.Customers,
		Retailers: stats.Retailers,
		Admins:    stats.Admins,
	})
}

// handleAdminProductAnalytics handles GET /api/admin/analytics/products requests.
func (s *Server) handleAdminProductAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.GetProductAnalytics(r.Context())
	if err != nil {
		s.logger.Error("computing product analytics", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]ProductAnalyticsResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ProductAnalyticsResponse{
			CropType:      row.CropType,
			Count:         row.Count,
			TotalQuantity: row.TotalQuantity,
			AverageRating: row.AverageRating,
		})
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleAdminPurchaseAnalytics handles GET /api/admin/analytics/purchases requests.
func (s *Server) handleAdminPurchaseAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.GetPurchaseAnalytics(r.Context())
	if err != nil {
		s.logger.Error("computing purchase analytics", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]PurchaseAnalyticsResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, PurchaseAnalyticsResponse{
			Month:   row.Month,
			Orders:  row.Orders,
			Revenue: row.Revenue,
		})
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleAdminActivity handles GET /api/admin/activity requests. Supports an
// optional ?limit=N query parameter.
func (s *Server) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.sendJSONError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	activities, err := s.store.ListActivities(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing activities", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		out = append(out, ActivityResponse{
			ID:        a.ID,
			Type:      a.Type,
			UserName:  a.UserName,
			Role:      a.Role,
			Action:    a.Action,
			Product:   a.Product,
			Amount:    a.Amount,
			Rating:    a.Rating,
			Status:    a.Status,
			CreatedAt: a.CreatedAt.Format(time.RFC3339),
		})
	}
	s.sendJSON(w, http.StatusOK, out)
}
