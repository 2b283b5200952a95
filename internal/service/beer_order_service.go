package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// BeerOrderService handles business logic for customer beer orders
type BeerOrderService struct {
	orders    repository.BeerOrderRepository
	customers repository.CustomerRepository
	beers     repository.BeerRepository
}

// NewBeerOrderService creates a new beer order service
func NewBeerOrderService(orders repository.BeerOrderRepository, customers repository.CustomerRepository, beers repository.BeerRepository) *BeerOrderService {
	return &BeerOrderService{
		orders:    orders,
		customers: customers,
		beers:     beers,
	}
}

// ListOrders returns a page of the customer's orders
func (s *BeerOrderService) ListOrders(ctx context.Context, customerID uuid.UUID, page models.PageRequest) (*models.BeerOrderPagedList, error) {
	ctx, span := tracer.Start(ctx, "BeerOrderService.ListOrders")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.Int("page.number", page.PageNumber),
		attribute.Int("page.size", page.PageSize),
	)

	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to list orders for customer %s: %w", customerID, err)
	}

	orders, total, err := s.orders.FindAllByCustomer(ctx, customerID, page)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list orders for customer %s: %w", customerID, err)
	}

	beers, err := s.beersForOrders(ctx, orders...)
	if err != nil {
		return nil, err
	}

	dtos := make([]models.BeerOrderDto, 0, len(orders))
	for _, order := range orders {
		dtos = append(dtos, BeerOrderToDto(order, beers))
	}

	list := models.NewPage(dtos, page, total)
	return &list, nil
}

// GetOrderByID returns an order that belongs to the customer
func (s *BeerOrderService) GetOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*models.BeerOrderDto, error) {
	ctx, span := tracer.Start(ctx, "BeerOrderService.GetOrderByID")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("order.id", orderID.String()),
	)

	order, err := s.orderForCustomer(ctx, customerID, orderID)
	if err != nil {
		return nil, err
	}

	beers, err := s.beersForOrders(ctx, *order)
	if err != nil {
		return nil, err
	}

	dto := BeerOrderToDto(*order, beers)
	return &dto, nil
}

// PlaceOrder validates and stores a new order for the customer. Only the
// customer reference, callback URL and each line's beer id and quantity
// are taken from the request.
func (s *BeerOrderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, req models.BeerOrderDto) (*models.BeerOrderDto, error) {
	ctx, span := tracer.Start(ctx, "BeerOrderService.PlaceOrder")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", customerID.String()))

	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to place order for customer %s: %w", customerID, err)
	}

	if len(req.BeerOrderLines) == 0 {
		return nil, ErrEmptyOrder
	}

	beers := make(map[uuid.UUID]models.Beer)
	lines := make([]models.BeerOrderLine, 0, len(req.BeerOrderLines))

	for _, line := range req.BeerOrderLines {
		if line.OrderQuantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		if _, seen := beers[line.BeerID]; !seen {
			beer, err := s.beers.FindByID(ctx, line.BeerID)
			if errors.Is(err, repository.ErrBeerNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrInvalidBeer, line.BeerID)
			}
			if err != nil {
				return nil, fmt.Errorf("failed to look up beer %s: %w", line.BeerID, err)
			}
			beers[beer.ID] = *beer
		}

		lines = append(lines, models.BeerOrderLine{
			BeerID:        line.BeerID,
			OrderQuantity: line.OrderQuantity,
		})
	}

	order := models.BeerOrder{
		CustomerID:             customerID,
		CustomerRef:            req.CustomerRef,
		OrderStatus:            models.OrderStatusNew,
		OrderStatusCallbackURL: req.OrderStatusCallbackURL,
		Lines:                  lines,
	}

	if err := s.orders.Save(ctx, &order); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID.String()))

	dto := BeerOrderToDto(order, beers)
	return &dto, nil
}

// PickupOrder marks the customer's order as picked up
func (s *BeerOrderService) PickupOrder(ctx context.Context, customerID, orderID uuid.UUID) error {
	ctx, span := tracer.Start(ctx, "BeerOrderService.PickupOrder")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", customerID.String()),
		attribute.String("order.id", orderID.String()),
	)

	order, err := s.orderForCustomer(ctx, customerID, orderID)
	if err != nil {
		return err
	}

	if order.OrderStatus == models.OrderStatusPickedUp {
		return ErrOrderAlreadyPickedUp
	}

	order.OrderStatus = models.OrderStatusPickedUp
	if err := s.orders.Update(ctx, order); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to pick up order %s: %w", orderID, err)
	}
	return nil
}

// orderForCustomer loads an order and checks that it belongs to the
// customer. An order owned by someone else is reported as not found.
func (s *BeerOrderService) orderForCustomer(ctx context.Context, customerID, orderID uuid.UUID) (*models.BeerOrder, error) {
	if _, err := s.customers.FindByID(ctx, customerID); err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	if order.CustomerID != customerID {
		return nil, fmt.Errorf("order %s does not belong to customer %s: %w", orderID, customerID, ErrOrderNotFound)
	}
	return order, nil
}

// beersForOrders loads the beers referenced by the orders' lines
func (s *BeerOrderService) beersForOrders(ctx context.Context, orders ...models.BeerOrder) (map[uuid.UUID]models.Beer, error) {
	beers := make(map[uuid.UUID]models.Beer)
	for _, order := range orders {
		for _, line := range order.Lines {
			if _, seen := beers[line.BeerID]; seen {
				continue
			}
			beer, err := s.beers.FindByID(ctx, line.BeerID)
			if errors.Is(err, repository.ErrBeerNotFound) {
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("failed to look up beer %s: %w", line.BeerID, err)
			}
			beers[beer.ID] = *beer
		}
	}
	return beers, nil
}
