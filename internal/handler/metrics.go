package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/pricewatch/pricewatch/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics handles GET /metrics in Prometheus text exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "pricewatch_products_created_total %d\n", snap.ProductsCreated)
	writeMetric(w, "pricewatch_products_updated_total %d\n", snap.ProductsUpdated)
	writeMetric(w, "pricewatch_folders_created_total %d\n", snap.FoldersCreated)
	writeMetric(w, "pricewatch_product_folder_links_total %d\n", snap.FolderLinks)

	writeMetric(w, "pricewatch_usage_records_total %d\n", snap.UsageRecords)
	writeMetric(w, "pricewatch_usage_recorded_seconds_total %.3f\n", float64(snap.UsageRecordTotalMs)/1e3)
	writeMetric(w, "pricewatch_usage_record_failures_total %d\n", snap.UsageRecordFailures)

	writeMetric(w, "pricewatch_auth_cache_total{result=\"hit\"} %d\n", snap.AuthCacheHits)
	writeMetric(w, "pricewatch_auth_cache_total{result=\"miss\"} %d\n", snap.AuthCacheMisses)
	writeMetric(w, "pricewatch_rate_limited_total %d\n", snap.RateLimited)
}

func writeMetric(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
