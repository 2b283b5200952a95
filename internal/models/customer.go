package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is the persisted customer entity
type Customer struct {
	ID               uuid.UUID
	Version          int
	CreatedDate      time.Time
	LastModifiedDate time.Time
	CustomerName     string
	APIKey           uuid.UUID
}

// CustomerDto is the JSON representation of a customer. The API key is never exposed.
type CustomerDto struct {
	ID               uuid.UUID `json:"id"`
	Version          int       `json:"version"`
	CustomerName     string    `json:"customerName"`
	CreatedDate      DateTime  `json:"createdDate"`
	LastModifiedDate DateTime  `json:"lastModifiedDate"`
}
