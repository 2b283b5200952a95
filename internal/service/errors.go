package service

import (
	"errors"

	"github.com/Lixing-Zhang/brewery-service/internal/repository"
)

var (
	ErrBeerNotFound     = repository.ErrBeerNotFound
	ErrCustomerNotFound = repository.ErrCustomerNotFound
	ErrOrderNotFound    = repository.ErrOrderNotFound
	ErrOptimisticLock   = repository.ErrOptimisticLock

	ErrEmptyOrder           = errors.New("order must contain at least one line")
	ErrInvalidQuantity      = errors.New("order quantity must be positive")
	ErrInvalidBeer          = errors.New("invalid beer")
	ErrOrderAlreadyPickedUp = errors.New("order has already been picked up")
)
