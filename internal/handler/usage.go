package handler

import (
	"log/slog"
	"net/http"

	"github.com/pricewatch/pricewatch/internal/service"
)

// UsageHandler exposes the per-user usage counters to admins.
type UsageHandler struct {
	meter  *service.UsageMeter
	logger *slog.Logger
}

// NewUsageHandler creates a new UsageHandler.
func NewUsageHandler(meter *service.UsageMeter, logger *slog.Logger) *UsageHandler {
	return &UsageHandler{
		meter:  meter,
		logger: logger,
	}
}

// List handles GET /api/use/time.
func (h *UsageHandler) List(w http.ResponseWriter, r *http.Request) {
	usages, err := h.meter.ListAll(r.Context())
	if err != nil {
		handleServiceError(h.logger, w, err)
		return
	}

	writeJSON(w, http.StatusOK, usages)
}
