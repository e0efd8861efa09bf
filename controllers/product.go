package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"peakgear/booking"
	"peakgear/models"
	"peakgear/store"
	"peakgear/utils"
)

// ProductController handles catalog requests
type ProductController struct {
	Store    store.Storage
	Bookings *booking.Service
	Validate *validator.Validate
}

// NewProductController creates a new ProductController
func NewProductController(st store.Storage, bookings *booking.Service, validate *validator.Validate) *ProductController {
	return &ProductController{Store: st, Bookings: bookings, Validate: validate}
}

type productInput struct {
	Name            string            `json:"name" validate:"required"`
	Description     string            `json:"description"`
	Category        string            `json:"category" validate:"required,oneof=cargo_box bike_carrier"`
	DailyRate       string            `json:"dailyRate" validate:"required"`
	SecurityDeposit string            `json:"securityDeposit" validate:"required"`
	Specifications  map[string]string `json:"specifications"`
	CompatibleCars  []string          `json:"compatibleCars"`
	Images          []string          `json:"images"`
}

// List returns the public catalog: available products only
func (pc *ProductController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, err := pc.Store.ListAvailableProducts(ctx)
	if err != nil {
		slog.Error("failed to list products", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// AdminList returns every product, soft-deleted ones included
func (pc *ProductController) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products, err := pc.Store.ListAllProducts(ctx)
	if err != nil {
		slog.Error("failed to list all products", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetByID returns a single product
func (pc *ProductController) GetByID(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("failed to fetch product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Availability reports whether the product is free for a date range
func (pc *ProductController) Availability(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	startDate := r.URL.Query().Get("startDate")
	endDate := r.URL.Query().Get("endDate")
	if startDate == "" || endDate == "" {
		writeError(w, http.StatusBadRequest, "Start date and end date are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	available, err := pc.Bookings.CheckAvailability(ctx, id, startDate, endDate)
	if err != nil {
		if booking.Code(err) != "" {
			writeBookingError(w, err)
			return
		}
		slog.Error("availability check failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to check availability")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

// Create adds a product to the catalog (admin only)
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	var in productInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := pc.Validate.Struct(in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product data")
		return
	}
	if _, err := utils.ParseAmount(in.DailyRate); err != nil {
		writeError(w, http.StatusBadRequest, "dailyRate must be a decimal amount")
		return
	}
	if _, err := utils.ParseAmount(in.SecurityDeposit); err != nil {
		writeError(w, http.StatusBadRequest, "securityDeposit must be a decimal amount")
		return
	}

	product := &models.Product{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Description:     in.Description,
		Category:        models.ProductCategory(in.Category),
		DailyRate:       in.DailyRate,
		SecurityDeposit: in.SecurityDeposit,
		Specifications:  in.Specifications,
		CompatibleCars:  in.CompatibleCars,
		Images:          in.Images,
		Available:       true,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := pc.Store.CreateProduct(ctx, product); err != nil {
		slog.Error("failed to create product", "error", err)
		writeError(w, http.StatusInternalServerError, "Error creating product")
		return
	}
	writeJSON(w, http.StatusCreated, product)
}

// Update applies a partial update to a product (admin only). Absent
// fields keep their stored values.
func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	product, err := pc.Store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("failed to fetch product for update", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}

	// Decoding into the loaded struct leaves absent fields untouched
	if err := json.NewDecoder(r.Body).Decode(product); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	product.ID = id
	if !models.ValidCategory(product.Category) {
		writeError(w, http.StatusBadRequest, "Invalid product category")
		return
	}
	if _, err := utils.ParseAmount(product.DailyRate); err != nil {
		writeError(w, http.StatusBadRequest, "dailyRate must be a decimal amount")
		return
	}
	if _, err := utils.ParseAmount(product.SecurityDeposit); err != nil {
		writeError(w, http.StatusBadRequest, "securityDeposit must be a decimal amount")
		return
	}

	if err := pc.Store.UpdateProduct(ctx, product); err != nil {
		slog.Error("failed to update product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update product")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Delete soft-deletes a product (admin only): it disappears from the
// public catalog but historical bookings keep their reference
func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := pc.Store.SoftDeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		slog.Error("failed to delete product", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to delete product")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
