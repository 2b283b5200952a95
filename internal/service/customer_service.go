package service

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// CustomerService handles customer lookups
type CustomerService struct {
	repo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(repo repository.CustomerRepository) *CustomerService {
	return &CustomerService{
		repo: repo,
	}
}

// GetCustomerByID returns a customer by ID
func (s *CustomerService) GetCustomerByID(ctx context.Context, id uuid.UUID) (*models.CustomerDto, error) {
	ctx, span := tracer.Start(ctx, "CustomerService.GetCustomerByID")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", id.String()))

	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}

	dto := CustomerToDto(*customer)
	return &dto, nil
}
