// ABOUTME: HTTP handlers for product ratings
// ABOUTME: One rating per customer per product; averages maintained by the store

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/farmchainx/farmchainx/internal/auth"
	"github.com/farmchainx/farmchainx/internal/store"
)

// RatingRequest is the JSON request body for POST /api/products/{id}/ratings.
type RatingRequest struct {
	Stars   int    `json:"stars"`
	Comment string `json:"comment,omitempty"`
}

// RatingResponse is the JSON shape of a rating.
type RatingResponse struct {
	ID        string `json:"id"`
	ProductID string `json:"product_id"`
	UserID    string `json:"user_id"`
	Stars     int    `json:"stars"`
	Comment   string `json:"comment,omitempty"`
	CreatedAt string `json:"created_at"`
}

func toRatingResponse(rt *store.Rating) RatingResponse {
	return RatingResponse{
		ID:        rt.ID,
		ProductID: rt.ProductID,
		UserID:    rt.UserID,
		Stars:     rt.Stars,
		Comment:   rt.Comment,
		CreatedAt: rt.CreatedAt.Format(time.RFC3339),
	}
}

// handleListRatings handles GET /api/products/{id}/ratings requests. Public.
func (s *Server) handleListRatings(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	// 404 for a missing product, not an empty list
	if _, err := s.store.GetProduct(r.Context(), productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	ratings, err := s.store.ListRatingsByProduct(r.Context(), productID)
	if err != nil {
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]RatingResponse, 0, len(ratings))
	for _, rt := range ratings {
		out = append(out, toRatingResponse(rt))
	}
	s.sendJSON(w, http.StatusOK, out)
}

// handleCreateRating handles POST /api/products/{id}/ratings requests.
func (s *Server) handleCreateRating(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	var req RatingRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.Stars < 1 || req.Stars > 5 {
		s.sendJSONError(w, http.StatusBadRequest, "stars must be between 1 and 5")
		return
	}

	rating := &store.Rating{
		ProductID: r.PathValue("id"),
		UserID:    authCtx.UserID,
		Stars:     req.Stars,
		Comment:   req.Comment,
	}

	if err := s.store.CreateRating(r.Context(), rating); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			s.sendJSONError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, store.ErrDuplicateRating):
			s.sendJSONError(w, http.StatusConflict, "product already rated")
		default:
			s.logger.Error("creating rating", "error", err)
			s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		}
		return
	}

	s.recordActivity(r, &store.Activity{
		Type:     store.ActivityRating,
		UserName: authCtx.Email,
		Role:     string(authCtx.Role),
		Action:   "rated product",
		Product:  rating.ProductID,
		Rating:   strconv.Itoa(rating.Stars),
	})

	s.sendJSON(w, http.StatusCreated, toRatingResponse(rating))
}

// handleDeleteRating handles DELETE /api/ratings/{id} requests. Only the
// rating's author or an admin may delete it.
func (s *Server) handleDeleteRating(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	rating, err := s.store.GetRating(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrRatingNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "rating not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	if rating.UserID != authCtx.UserID && !authCtx.IsAdmin() {
		s.sendJSONError(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := s.store.DeleteRating(r.Context(), rating.ID); err != nil {
		if errors.Is(err, store.ErrRatingNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "rating not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
