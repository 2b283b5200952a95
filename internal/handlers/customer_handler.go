package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/service"
	"github.com/google/uuid"
)

type customerService interface {
	GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.CustomerDto, error)
}

// CustomerHandler handles customer HTTP requests
type CustomerHandler struct {
	customerService customerService
	log             *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService customerService, log *slog.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		log:             log,
	}
}

// GetCustomer handles GET /api/v1/customers/{customerId}
func (h *CustomerHandler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	customer, err := h.customerService.GetCustomerByID(r.Context(), customerID)
	if err != nil {
		if errors.Is(err, service.ErrCustomerNotFound) {
			h.log.Info("customer not found", "customer_id", customerID)
			WriteError(w, http.StatusNotFound, "Customer not found", h.log)
			return
		}
		h.log.Error("failed to get customer", "customer_id", customerID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, customer, h.log)
}
