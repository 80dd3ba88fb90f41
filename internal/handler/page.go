package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/pricewatch/pricewatch/internal/service"
)

// parsePageRequest reads page, size, sortBy and isAsc, falling back to the
// service defaults for absent parameters. Range checks are the service's job.
func parsePageRequest(r *http.Request) (service.PageRequest, error) {
	req := service.DefaultPageRequest()
	q := r.URL.Query()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("page must be an integer")
		}
		req.Page = n
	}
	if v := q.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("size must be an integer")
		}
		req.Size = n
	}
	if v := q.Get("sortBy"); v != "" {
		req.SortBy = v
	}
	if v := q.Get("isAsc"); v != "" {
		asc, err := strconv.ParseBool(v)
		if err != nil {
			return req, fmt.Errorf("isAsc must be a boolean")
		}
		req.Asc = asc
	}

	return req, nil
}
