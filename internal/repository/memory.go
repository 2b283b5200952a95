package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/google/uuid"
)

// now is replaced in tests
var now = func() time.Time { return time.Now().UTC() }

// paginate returns the slice of items covered by page
func paginate[T any](items []T, page models.PageRequest) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := len(items)
	if page.PageSize < end-start {
		end = start + page.PageSize
	}
	return items[start:end]
}

// InMemoryBeerRepository implements BeerRepository with in-memory storage
type InMemoryBeerRepository struct {
	mu    sync.RWMutex
	beers map[uuid.UUID]models.Beer
}

// NewInMemoryBeerRepository creates an empty in-memory beer repository
func NewInMemoryBeerRepository() *InMemoryBeerRepository {
	return &InMemoryBeerRepository{
		beers: make(map[uuid.UUID]models.Beer),
	}
}

func (r *InMemoryBeerRepository) find(page models.PageRequest, match func(models.Beer) bool) ([]models.Beer, int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Beer, 0, len(r.beers))
	for _, beer := range r.beers {
		if match(beer) {
			matched = append(matched, beer)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].BeerName != matched[j].BeerName {
			return matched[i].BeerName < matched[j].BeerName
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	return paginate(matched, page), len(matched)
}

// FindAll returns a page of all beers
func (r *InMemoryBeerRepository) FindAll(ctx context.Context, page models.PageRequest) ([]models.Beer, int, error) {
	beers, total := r.find(page, func(models.Beer) bool { return true })
	return beers, total, nil
}

// FindAllByBeerName returns a page of beers whose name equals beerName
func (r *InMemoryBeerRepository) FindAllByBeerName(ctx context.Context, beerName string, page models.PageRequest) ([]models.Beer, int, error) {
	beers, total := r.find(page, func(b models.Beer) bool { return b.BeerName == beerName })
	return beers, total, nil
}

// FindAllByBeerStyle returns a page of beers of the given style
func (r *InMemoryBeerRepository) FindAllByBeerStyle(ctx context.Context, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error) {
	beers, total := r.find(page, func(b models.Beer) bool { return b.BeerStyle == beerStyle })
	return beers, total, nil
}

// FindAllByBeerNameAndBeerStyle returns a page of beers matching both name and style
func (r *InMemoryBeerRepository) FindAllByBeerNameAndBeerStyle(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error) {
	beers, total := r.find(page, func(b models.Beer) bool {
		return b.BeerName == beerName && b.BeerStyle == beerStyle
	})
	return beers, total, nil
}

// FindByID returns a beer by its ID
func (r *InMemoryBeerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Beer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	beer, exists := r.beers[id]
	if !exists {
		return nil, ErrBeerNotFound
	}
	return &beer, nil
}

// Save inserts or replaces a beer. A nil ID is replaced with a new one.
func (r *InMemoryBeerRepository) Save(ctx context.Context, beer *models.Beer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := now()
	if beer.ID == uuid.Nil {
		beer.ID = uuid.New()
	}
	if existing, ok := r.beers[beer.ID]; ok {
		beer.CreatedDate = existing.CreatedDate
		beer.Version = existing.Version + 1
	} else if beer.CreatedDate.IsZero() {
		beer.CreatedDate = ts
	}
	beer.LastModifiedDate = ts

	r.beers[beer.ID] = *beer
	return nil
}

// Count returns the number of stored beers
func (r *InMemoryBeerRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.beers), nil
}

// InMemoryCustomerRepository implements CustomerRepository with in-memory storage
type InMemoryCustomerRepository struct {
	mu        sync.RWMutex
	customers map[uuid.UUID]models.Customer
}

// NewInMemoryCustomerRepository creates an empty in-memory customer repository
func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{
		customers: make(map[uuid.UUID]models.Customer),
	}
}

// FindAll returns all customers ordered by creation date
func (r *InMemoryCustomerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customers := make([]models.Customer, 0, len(r.customers))
	for _, customer := range r.customers {
		customers = append(customers, customer)
	}
	sort.Slice(customers, func(i, j int) bool {
		if !customers[i].CreatedDate.Equal(customers[j].CreatedDate) {
			return customers[i].CreatedDate.Before(customers[j].CreatedDate)
		}
		return customers[i].CustomerName < customers[j].CustomerName
	})
	return customers, nil
}

// FindByID returns a customer by its ID
func (r *InMemoryCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	customer, exists := r.customers[id]
	if !exists {
		return nil, ErrCustomerNotFound
	}
	return &customer, nil
}

// Save inserts or replaces a customer. A nil ID is replaced with a new one.
func (r *InMemoryCustomerRepository) Save(ctx context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ts := now()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if existing, ok := r.customers[customer.ID]; ok {
		customer.CreatedDate = existing.CreatedDate
		customer.Version = existing.Version + 1
	} else if customer.CreatedDate.IsZero() {
		customer.CreatedDate = ts
	}
	customer.LastModifiedDate = ts

	r.customers[customer.ID] = *customer
	return nil
}

// InMemoryBeerOrderRepository implements BeerOrderRepository with in-memory storage
type InMemoryBeerOrderRepository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]models.BeerOrder
}

// NewInMemoryBeerOrderRepository creates an empty in-memory order repository
func NewInMemoryBeerOrderRepository() *InMemoryBeerOrderRepository {
	return &InMemoryBeerOrderRepository{
		orders: make(map[uuid.UUID]models.BeerOrder),
	}
}

// cloneOrder copies the lines so callers cannot mutate stored state
func cloneOrder(order models.BeerOrder) models.BeerOrder {
	lines := make([]models.BeerOrderLine, len(order.Lines))
	copy(lines, order.Lines)
	order.Lines = lines
	return order
}

// FindAllByCustomer returns a page of the customer's orders, newest first
func (r *InMemoryBeerOrderRepository) FindAllByCustomer(ctx context.Context, customerID uuid.UUID, page models.PageRequest) ([]models.BeerOrder, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]models.BeerOrder, 0)
	for _, order := range r.orders {
		if order.CustomerID == customerID {
			orders = append(orders, cloneOrder(order))
		}
	}

	sort.Slice(orders, func(i, j int) bool {
		if !orders[i].CreatedDate.Equal(orders[j].CreatedDate) {
			return orders[i].CreatedDate.After(orders[j].CreatedDate)
		}
		return orders[i].ID.String() < orders[j].ID.String()
	})

	return paginate(orders, page), len(orders), nil
}

// FindByID returns an order with its lines
func (r *InMemoryBeerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.BeerOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	order = cloneOrder(order)
	return &order, nil
}

// Save inserts a new order and its lines
func (r *InMemoryBeerOrderRepository) Save(ctx context.Context, order *models.BeerOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if _, exists := r.orders[order.ID]; exists {
		return fmt.Errorf("beer order %s already exists", order.ID)
	}

	ts := now()
	order.Version = 0
	order.CreatedDate = ts
	order.LastModifiedDate = ts
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.BeerOrderID = order.ID
		line.Version = 0
		line.CreatedDate = ts
		line.LastModifiedDate = ts
	}

	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// Update persists the order status with an optimistic version check
func (r *InMemoryBeerOrderRepository) Update(ctx context.Context, order *models.BeerOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.orders[order.ID]
	if !exists {
		return ErrOrderNotFound
	}
	if stored.Version != order.Version {
		return ErrOptimisticLock
	}

	stored.OrderStatus = order.OrderStatus
	stored.OrderStatusCallbackURL = order.OrderStatusCallbackURL
	stored.Version++
	stored.LastModifiedDate = now()
	r.orders[order.ID] = stored

	order.Version = stored.Version
	order.LastModifiedDate = stored.LastModifiedDate
	return nil
}
