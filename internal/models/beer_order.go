package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a beer order
type OrderStatus string

const (
	OrderStatusNew      OrderStatus = "NEW"
	OrderStatusReady    OrderStatus = "READY"
	OrderStatusPickedUp OrderStatus = "PICKED_UP"
)

// BeerOrder is the persisted order entity, owned by one customer
type BeerOrder struct {
	ID                     uuid.UUID
	Version                int
	CreatedDate            time.Time
	LastModifiedDate       time.Time
	CustomerID             uuid.UUID
	CustomerRef            string
	OrderStatus            OrderStatus
	OrderStatusCallbackURL string
	Lines                  []BeerOrderLine
}

// BeerOrderLine is one beer and quantity within an order
type BeerOrderLine struct {
	ID                uuid.UUID
	Version           int
	CreatedDate       time.Time
	LastModifiedDate  time.Time
	BeerOrderID       uuid.UUID
	BeerID            uuid.UUID
	OrderQuantity     int
	QuantityAllocated int
}

// BeerOrderDto is the JSON representation of a beer order.
// On order placement only customerRef, orderStatusCallbackUrl and the
// lines' beerId and orderQuantity are read; everything else is assigned.
type BeerOrderDto struct {
	ID                     uuid.UUID          `json:"id"`
	Version                int                `json:"version"`
	CreatedDate            DateTime           `json:"createdDate"`
	LastModifiedDate       DateTime           `json:"lastModifiedDate"`
	CustomerID             uuid.UUID          `json:"customerId"`
	CustomerRef            string             `json:"customerRef"`
	BeerOrderLines         []BeerOrderLineDto `json:"beerOrderLines"`
	OrderStatus            OrderStatus        `json:"orderStatus"`
	OrderStatusCallbackURL string             `json:"orderStatusCallbackUrl"`
}

// BeerOrderLineDto is the JSON representation of an order line,
// denormalized with the ordered beer's catalog data.
type BeerOrderLineDto struct {
	ID                uuid.UUID       `json:"id"`
	Version           int             `json:"version"`
	CreatedDate       DateTime        `json:"createdDate"`
	LastModifiedDate  DateTime        `json:"lastModifiedDate"`
	BeerID            uuid.UUID       `json:"beerId"`
	UPC               int64           `json:"upc"`
	BeerName          string          `json:"beerName"`
	BeerStyle         BeerStyle       `json:"beerStyle"`
	Price             decimal.Decimal `json:"price"`
	OrderQuantity     int             `json:"orderQuantity"`
	QuantityAllocated int             `json:"quantityAllocated"`
}
