// ABOUTME: HTTP handlers for the product catalog and listing management
// ABOUTME: Ownership checks keep farmers from touching each other's listings

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/farmchainx/farmchainx/internal/auth"
	"github.com/farmchainx/farmchainx/internal/store"
)

// ProductRequest is the JSON request body for creating or updating a listing.
type ProductRequest struct {
	Name           string  `json:"name"`
	CropType       string  `json:"crop_type"`
	SoilType       string  `json:"soil_type,omitempty"`
	Pesticides     string  `json:"pesticides,omitempty"`
	HarvestDate    string  `json:"harvest_date,omitempty"`
	UseBeforeDate  string  `json:"use_before_date,omitempty"`
	Location       string  `json:"location,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	ImageURL       string  `json:"image_url,omitempty"`
}

// ProductResponse is the JSON shape of a listing.
type ProductResponse struct {
	ID             string  `json:"id"`
	FarmerID       string  `json:"farmer_id"`
	Name           string  `json:"name"`
	CropType       string  `json:"crop_type"`
	SoilType       string  `json:"soil_type,omitempty"`
	Pesticides     string  `json:"pesticides,omitempty"`
	HarvestDate    string  `json:"harvest_date,omitempty"`
	UseBeforeDate  string  `json:"use_before_date,omitempty"`
	Location       string  `json:"location,omitempty"`
	AdditionalInfo string  `json:"additional_info,omitempty"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	AverageRating  float64 `json:"average_rating"`
	ImageURL       string  `json:"image_url,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

func toProductResponse(p *store.Product) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		FarmerID:       p.FarmerID,
		Name:           p.Name,
		CropType:       p.CropType,
		SoilType:       p.SoilType,
		Pesticides:     p.Pesticides,
		HarvestDate:    p.HarvestDate,
		UseBeforeDate:  p.UseBeforeDate,
		Location:       p.Location,
		AdditionalInfo: p.AdditionalInfo,
		Price:          p.Price,
		Quantity:       p.Quantity,
		AverageRating:  p.AverageRating,
		ImageURL:       p.ImageURL,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
	}
}

func toProductResponses(products []*store.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, toProductResponse(p))
	}
	return out
}

func (s *Server) validateProductRequest(w http.ResponseWriter, req *ProductRequest) bool {
	if req.Name == "" || req.CropType == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name and crop_type are required")
		return false
	}
	if req.Price < 0 {
		s.sendJSONError(w, http.StatusBadRequest, "price must not be negative")
		return false
	}
	if req.Quantity < 0 {
		s.sendJSONError(w, http.StatusBadRequest, "quantity must not be negative")
		return false
	}
	return true
}

// handleListProducts handles GET /api/products requests. Public.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.logger.Error("listing products", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	s.sendJSON(w, http.StatusOK, toProductResponses(products))
}

// handleGetProduct handles GET /api/products/{id} requests. Public.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.store.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	s.sendJSON(w, http.StatusOK, toProductResponse(product))
}

// handleCreateProduct handles POST /api/products requests.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	var req ProductRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if !s.validateProductRequest(w, &req) {
		return
	}

	product := &store.Product{
		FarmerID:       authCtx.UserID,
		Name:           req.Name,
		CropType:       req.CropType,
		SoilType:       req.SoilType,
		Pesticides:     req.Pesticides,
		HarvestDate:    req.HarvestDate,
		UseBeforeDate:  req.UseBeforeDate,
		Location:       req.Location,
		AdditionalInfo: req.AdditionalInfo,
		Price:          req.Price,
		Quantity:       req.Quantity,
		ImageURL:       req.ImageURL,
	}

	if err := s.store.CreateProduct(r.Context(), product); err != nil {
		s.logger.Error("creating product", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	s.recordActivity(r, &store.Activity{
		Type:     store.ActivityProduct,
		UserName: authCtx.Email,
		Role:     string(authCtx.Role),
		Action:   "listed product",
		Product:  product.Name,
	})

	s.sendJSON(w, http.StatusCreated, toProductResponse(product))
}

// loadOwnedProduct fetches a product and enforces that the caller owns it or
// is an admin. Writes the error response itself on failure.
func (s *Server) loadOwnedProduct(w http.ResponseWriter, r *http.Request, id string) *store.Product {
	authCtx := auth.MustFromContext(r.Context())

	product, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "product not found")
			return nil
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return nil
	}

	if product.FarmerID != authCtx.UserID && !authCtx.IsAdmin() {
		s.sendJSONError(w, http.StatusForbidden, "forbidden")
		return nil
	}
	return product
}

// handleUpdateProduct handles PUT /api/products/{id} requests.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	product := s.loadOwnedProduct(w, r, r.PathValue("id"))
	if product == nil {
		return
	}

	var req ProductRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if !s.validateProductRequest(w, &req) {
		return
	}

	// Ownership and the rating average are not client-writable
	product.Name = req.Name
	product.CropType = req.CropType
	product.SoilType = req.SoilType
	product.Pesticides = req.Pesticides
	product.HarvestDate = req.HarvestDate
	product.UseBeforeDate = req.UseBeforeDate
	product.Location = req.Location
	product.AdditionalInfo = req.AdditionalInfo
	product.Price = req.Price
	product.Quantity = req.Quantity
	product.ImageURL = req.ImageURL

	if err := s.store.UpdateProduct(r.Context(), product); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	s.sendJSON(w, http.StatusOK, toProductResponse(product))
}

// handleDeleteProduct handles DELETE /api/products/{id} requests.
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	product := s.loadOwnedProduct(w, r, r.PathValue("id"))
	if product == nil {
		return
	}

	if err := s.store.DeleteProduct(r.Context(), product.ID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "product not found")
			return
		}
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleMyProducts handles GET /api/products/my-products requests.
func (s *Server) handleMyProducts(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.MustFromContext(r.Context())

	products, err := s.store.ListProductsByFarmer(r.Context(), authCtx.UserID)
	if err != nil {
		s.logger.Error("listing own products", "error", err)
		s.sendJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}
	s.sendJSON(w, http.StatusOK, toProductResponses(products))
}
