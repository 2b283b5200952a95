package repository

import (
	"context"
	"errors"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/google/uuid"
)

var (
	ErrBeerNotFound     = errors.New("beer not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrOrderNotFound    = errors.New("beer order not found")
	ErrOptimisticLock   = errors.New("entity was modified concurrently")
)

// BeerRepository defines data access for the beer catalog.
// Paged finders return the requested page ordered by beer name and the
// total number of matching beers.
type BeerRepository interface {
	FindAll(ctx context.Context, page models.PageRequest) ([]models.Beer, int, error)
	FindAllByBeerName(ctx context.Context, beerName string, page models.PageRequest) ([]models.Beer, int, error)
	FindAllByBeerStyle(ctx context.Context, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error)
	FindAllByBeerNameAndBeerStyle(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Beer, error)
	Save(ctx context.Context, beer *models.Beer) error
	Count(ctx context.Context) (int, error)
}

// CustomerRepository defines data access for customers
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]models.Customer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
}

// BeerOrderRepository defines data access for beer orders and their lines
type BeerOrderRepository interface {
	// FindAllByCustomer returns a page of the customer's orders, newest first
	FindAllByCustomer(ctx context.Context, customerID uuid.UUID, page models.PageRequest) ([]models.BeerOrder, int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.BeerOrder, error)
	// Save inserts a new order with its lines, assigning ids and timestamps
	Save(ctx context.Context, order *models.BeerOrder) error
	// Update persists the order status. It fails with ErrOptimisticLock when
	// the stored version differs from order.Version; on success the
	// version is incremented.
	Update(ctx context.Context, order *models.BeerOrder) error
}
