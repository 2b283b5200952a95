package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/service"
	"github.com/google/uuid"
)

// beerOrderService is what BeerOrderHandler needs from the order service
type beerOrderService interface {
	ListOrders(ctx context.Context, customerID uuid.UUID, page models.PageRequest) (*models.BeerOrderPagedList, error)
	GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.BeerOrderDto, error)
	PlaceOrder(ctx context.Context, customerID uuid.UUID, req models.BeerOrderDto) (*models.BeerOrderDto, error)
	PickupOrder(ctx context.Context, customerID, orderID uuid.UUID) error
}

// BeerOrderHandler handles customer order HTTP requests
type BeerOrderHandler struct {
	orderService beerOrderService
	log          *slog.Logger
}

// NewBeerOrderHandler creates a new beer order handler
func NewBeerOrderHandler(orderService beerOrderService, log *slog.Logger) *BeerOrderHandler {
	return &BeerOrderHandler{
		orderService: orderService,
		log:          log,
	}
}

// ListOrders handles GET /api/v1/customers/{customerId}/orders
func (h *BeerOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	page, err := pageRequest(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	list, err := h.orderService.ListOrders(r.Context(), customerID, page)
	if err != nil {
		h.writeServiceError(w, "failed to list orders", err, "customer_id", customerID)
		return
	}

	WriteJSON(w, http.StatusOK, list, h.log)
}

// GetOrder handles GET /api/v1/customers/{customerId}/orders/{orderId}
func (h *BeerOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	customerID, orderID, ok := h.orderParams(w, r)
	if !ok {
		return
	}

	order, err := h.orderService.GetOrderByID(r.Context(), customerID, orderID)
	if err != nil {
		h.writeServiceError(w, "failed to get order", err, "customer_id", customerID, "order_id", orderID)
		return
	}

	WriteJSON(w, http.StatusOK, order, h.log)
}

// PlaceOrder handles POST /api/v1/customers/{customerId}/orders
func (h *BeerOrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuidParam(r, "customerId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	var req models.BeerOrderDto
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log.Warn("failed to decode order request", "error", err)
		WriteError(w, http.StatusBadRequest, "Invalid request body", h.log)
		return
	}

	order, err := h.orderService.PlaceOrder(r.Context(), customerID, req)
	if err != nil {
		h.writeServiceError(w, "failed to place order", err, "customer_id", customerID)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/api/v1/customers/%s/orders/%s", customerID, order.ID))
	WriteJSON(w, http.StatusCreated, order, h.log)
	h.log.Info("order placed", "order_id", order.ID, "customer_id", customerID, "lines", len(order.BeerOrderLines))
}

// PickupOrder handles PUT /api/v1/customers/{customerId}/orders/{orderId}/pickup
func (h *BeerOrderHandler) PickupOrder(w http.ResponseWriter, r *http.Request) {
	customerID, orderID, ok := h.orderParams(w, r)
	if !ok {
		return
	}

	if err := h.orderService.PickupOrder(r.Context(), customerID, orderID); err != nil {
		h.writeServiceError(w, "failed to pick up order", err, "customer_id", customerID, "order_id", orderID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
	h.log.Info("order picked up", "order_id", orderID, "customer_id", customerID)
}

func (h *BeerOrderHandler) orderParams(w http.ResponseWriter, r *http.Request) (uuid.UUID, uuid.UUID, bool) {
	customerID, err := uuidParam(r, "customerId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return uuid.Nil, uuid.Nil, false
	}

	orderID, err := uuidParam(r, "orderId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return uuid.Nil, uuid.Nil, false
	}

	return customerID, orderID, true
}

// writeServiceError maps service errors to HTTP responses
func (h *BeerOrderHandler) writeServiceError(w http.ResponseWriter, msg string, err error, args ...any) {
	args = append(args, "error", err)

	switch {
	case errors.Is(err, service.ErrCustomerNotFound):
		h.log.Info(msg, args...)
		WriteError(w, http.StatusNotFound, "Customer not found", h.log)
	case errors.Is(err, service.ErrOrderNotFound):
		h.log.Info(msg, args...)
		WriteError(w, http.StatusNotFound, "Order not found", h.log)
	case errors.Is(err, service.ErrEmptyOrder):
		h.log.Warn(msg, args...)
		WriteError(w, http.StatusBadRequest, "Order must contain at least one line", h.log)
	case errors.Is(err, service.ErrInvalidQuantity):
		h.log.Warn(msg, args...)
		WriteError(w, http.StatusBadRequest, "Order quantity must be positive", h.log)
	case errors.Is(err, service.ErrInvalidBeer):
		h.log.Warn(msg, args...)
		WriteError(w, http.StatusBadRequest, "Invalid beer", h.log)
	case errors.Is(err, service.ErrOrderAlreadyPickedUp):
		h.log.Warn(msg, args...)
		WriteError(w, http.StatusConflict, "Order already picked up", h.log)
	case errors.Is(err, service.ErrOptimisticLock):
		h.log.Warn(msg, args...)
		WriteError(w, http.StatusConflict, "Order was modified concurrently", h.log)
	default:
		h.log.Error(msg, args...)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
	}
}
