package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
)

const customerColumns = "id, version, created_date, last_modified_date, customer_name, api_key"

// CustomerRepository implements repository.CustomerRepository using PostgreSQL
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var c models.Customer
	if err := s.Scan(&c.ID, &c.Version, &c.CreatedDate, &c.LastModifiedDate, &c.CustomerName, &c.APIKey); err != nil {
		return nil, fmt.Errorf("error scanning customer: %w", err)
	}
	return &c, nil
}

// FindAll returns all customers ordered by creation date
func (r *CustomerRepository) FindAll(ctx context.Context) ([]models.Customer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+customerColumns+" FROM customer ORDER BY created_date, customer_name")
	if err != nil {
		return nil, fmt.Errorf("error listing customers: %w", err)
	}
	defer rows.Close()

	var customers []models.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// FindByID returns a customer by its ID
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+customerColumns+" FROM customer WHERE id = $1", id)
	c, err := scanCustomer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Save inserts a customer or updates the stored one, bumping its version
func (r *CustomerRepository) Save(ctx context.Context, customer *models.Customer) error {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}

	query := `
		INSERT INTO customer (id, version, created_date, last_modified_date, customer_name, api_key)
		VALUES ($1, 0, $2, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET
			version = customer.version + 1,
			last_modified_date = EXCLUDED.last_modified_date,
			customer_name = EXCLUDED.customer_name,
			api_key = EXCLUDED.api_key
		RETURNING version, created_date, last_modified_date
	`

	err := r.db.QueryRowContext(ctx, query, customer.ID, now(), customer.CustomerName, customer.APIKey).
		Scan(&customer.Version, &customer.CreatedDate, &customer.LastModifiedDate)
	if err != nil {
		return fmt.Errorf("error saving customer: %w", err)
	}
	return nil
}
