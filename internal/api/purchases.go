// ABOUTME: HTTP handlers for placing orders and listing purchase history
// ABOUTME: Stock decrement and total computation happen in the store transaction

package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/farmchainx/farmchainx/internal/auth"
	"github.com/farmchainx/farmchainx/internal/store"
)

// PurchaseRequest is the JSON request body for POST /api/purchases.
type PurchaseRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PurchaseResponse is the JSON shape of a completed order.
type PurchaseResponse struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	UserID      string  `json:"user_id"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"total_amount"`
	CreatedAt   string  `json:"created_at"`
}

func toPurchaseResponse(p *store.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		UserID:      p.UserID,
		Quantity:    p.Quantity,
		TotalAmount: p.TotalAmount,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
	}
}

// handleCreatePurchase handles POST /api/purchases requests.
func (s *Server) handleCreatePurchase(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	var req PurchaseRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		s.sendJSONError(w, http.StatusBadRequest, "product_id is required")
		return
	}
	if req.Quantity < 1 {
		s.sendJSONError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	purchase := &store.Purchase{
		ProductID: req.ProductID,
		UserID:    authCtx.UserID,
		Quantity:  req.Quantity,
	}

	if err := s.store.CreatePurchase(r.Context(), purchase); err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			s.sendJSONError(w, http.StatusNotFound, "product not found")
		case errors.Is(err, store.ErrInsufficientStock):
			s.sendJSONError(w, http.StatusConflict, "insufficient stock")
		default:
			s.logger.Error("creating purchase", "error", err)
			s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		}
		return
	}

	s.recordActivity(r, &store.Activity{
		Type:     store.ActivityPurchase,
		UserName: authCtx.Email,
		Role:     string(authCtx.Role),
		Action:   "purchased product",
		Product:  purchase.ProductID,
		Amount:   strconv.FormatFloat(purchase.TotalAmount, 'f', 2, 64),
	})

	s.sendJSON(w, http.StatusCreated, toPurchaseResponse(purchase))
}

// handleListPurchases handles GET /api/purchases/mine requests. Returns the
// caller's own purchase history.
func (s *Server) handleListPurchases(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	purchases, err := s.store.ListPurchasesByUser(r.Context(), authCtx.UserID)
	if err != nil {
		s.logger.Error("listing purchases", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, toPurchaseResponse(p))
	}
	s.sendJSON(w, http.StatusOK, out)
}
