package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/handler/dto"
	"github.com/pricewatch/pricewatch/internal/service"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(catalog *service.CatalogService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Create handles POST /api/products.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	product, err := h.catalog.CreateProduct(r.Context(), principal, service.CreateProductInput{
		Title:    req.Title,
		Image:    req.Image,
		Link:     req.Link,
		LowPrice: req.LowPrice,
	})
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("product_created",
		"product_id", product.ID,
		"user_id", product.UserID,
	)

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id}.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	product, err := h.catalog.UpdateProduct(r.Context(), principal, chi.URLParam(r, "id"), *req.MyPrice)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IDResponse{ID: product.ID})
}

// List handles GET /api/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	page, err := h.catalog.GetProducts(r.Context(), auth.PrincipalFromContext(r.Context()), pageReq)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// ListAll handles GET /api/admin/products.
func (h *ProductHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	page, err := h.catalog.GetAllProducts(r.Context(), pageReq)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// AddFolder handles POST /api/products/{productId}/folder?folderId=.
func (h *ProductHandler) AddFolder(w http.ResponseWriter, r *http.Request) {
	folderID := r.URL.Query().Get("folderId")
	if folderID == "" {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", "folderId is required")
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	product, err := h.catalog.AddFolder(r.Context(), principal, chi.URLParam(r, "productId"), folderID)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IDResponse{ID: product.ID})
}
