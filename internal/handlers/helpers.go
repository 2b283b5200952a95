package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Query parameter names shared by the paged endpoints
const (
	paramPageNumber = "pageNumber"
	paramPageSize   = "pageSize"
)

// uuidParam parses the named chi URL parameter as a UUID
func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// pageRequest reads pageNumber and pageSize from the query string. Missing
// or out-of-range values fall back to the defaults; non-numeric values are
// rejected.
func pageRequest(r *http.Request) (models.PageRequest, error) {
	query := r.URL.Query()

	pageNumber, err := intQuery(query.Get(paramPageNumber), models.DefaultPageNumber)
	if err != nil {
		return models.PageRequest{}, fmt.Errorf("invalid %s: %w", paramPageNumber, err)
	}

	pageSize, err := intQuery(query.Get(paramPageSize), models.DefaultPageSize)
	if err != nil {
		return models.PageRequest{}, fmt.Errorf("invalid %s: %w", paramPageSize, err)
	}

	return models.NewPageRequest(pageNumber, pageSize), nil
}

func intQuery(raw string, defaultValue int) (int, error) {
	if raw == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(raw)
}
