package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pricewatch/pricewatch/internal/auth"
	"github.com/pricewatch/pricewatch/internal/handler/dto"
	"github.com/pricewatch/pricewatch/internal/service"
)

// FolderHandler handles HTTP requests for folders.
type FolderHandler struct {
	catalog *service.CatalogService
	logger  *slog.Logger
}

// NewFolderHandler creates a new FolderHandler.
func NewFolderHandler(catalog *service.CatalogService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		catalog: catalog,
		logger:  logger,
	}
}

// Create handles POST /api/folders.
func (h *FolderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateFoldersRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	folders, err := h.catalog.AddFolders(r.Context(), principal, req.FolderNames)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	h.logger.Info("folders_created",
		"user_id", principal.UserID,
		"count", len(folders),
	)

	writeJSON(w, http.StatusCreated, folders)
}

// List handles GET /api/folders.
func (h *FolderHandler) List(w http.ResponseWriter, r *http.Request) {
	folders, err := h.catalog.GetFolders(r.Context(), auth.PrincipalFromContext(r.Context()))
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, folders)
}

// Products handles GET /api/folders/{folderId}/products.
func (h *FolderHandler) Products(w http.ResponseWriter, r *http.Request) {
	pageReq, err := parsePageRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
		return
	}

	principal := auth.PrincipalFromContext(r.Context())
	page, err := h.catalog.GetProductsInFolder(r.Context(), principal, chi.URLParam(r, "folderId"), pageReq)
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, page)
}
