package middleware

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/brewery-service/internal/config"
	"github.com/Lixing-Zhang/brewery-service/internal/handlers"
	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// APIKeyHeader carries the caller's API key
const APIKeyHeader = "api_key"

// CustomerLookup finds the customer named in the route
type CustomerLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// APIKeyAuth middleware validates the API key from the api_key header.
// A configured staff key is accepted on any route. Otherwise the key must be
// the API key of the customer in the {customerId} route parameter.
func APIKeyAuth(cfg config.AuthConfig, customers CustomerLookup, log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)

			if apiKey == "" {
				handlers.WriteError(w, http.StatusUnauthorized, "Unauthorized: API key required", log)
				return
			}

			if isStaffKey(cfg.APIKeys, apiKey) || isCustomerKey(r, customers, apiKey) {
				next.ServeHTTP(w, r)
				return
			}

			log.Warn("rejected API key", "path", r.URL.Path)
			handlers.WriteError(w, http.StatusForbidden, "Forbidden: Invalid API key", log)
		})
	}
}

func isStaffKey(keys []string, apiKey string) bool {
	for _, validKey := range keys {
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(validKey)) == 1 {
			return true
		}
	}
	return false
}

func isCustomerKey(r *http.Request, customers CustomerLookup, apiKey string) bool {
	if customers == nil {
		return false
	}

	customerID, err := uuid.Parse(chi.URLParam(r, "customerId"))
	if err != nil {
		return false
	}
	key, err := uuid.Parse(apiKey)
	if err != nil {
		return false
	}

	customer, err := customers.FindByID(r.Context(), customerID)
	if err != nil {
		return false
	}
	return customer.APIKey == key
}
