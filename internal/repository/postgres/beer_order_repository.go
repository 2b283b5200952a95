package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const beerOrderColumns = `id, version, created_date, last_modified_date, customer_id,
	customer_ref, order_status, order_status_callback_url`

const beerOrderLineColumns = `id, version, created_date, last_modified_date, beer_order_id,
	beer_id, order_quantity, quantity_allocated`

// BeerOrderRepository implements repository.BeerOrderRepository using PostgreSQL.
// An order and its lines are loaded and stored together.
type BeerOrderRepository struct {
	db *sql.DB
}

// NewBeerOrderRepository creates a new order repository
func NewBeerOrderRepository(db *sql.DB) *BeerOrderRepository {
	return &BeerOrderRepository{db: db}
}

func scanBeerOrder(s scanner) (*models.BeerOrder, error) {
	var order models.BeerOrder
	var ref, callback sql.NullString
	var status string
	err := s.Scan(
		&order.ID,
		&order.Version,
		&order.CreatedDate,
		&order.LastModifiedDate,
		&order.CustomerID,
		&ref,
		&status,
		&callback,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning beer order: %w", err)
	}
	order.CustomerRef = ref.String
	order.OrderStatus = models.OrderStatus(status)
	order.OrderStatusCallbackURL = callback.String
	return &order, nil
}

// loadLines fetches the lines of all given orders in one query
func (r *BeerOrderRepository) loadLines(ctx context.Context, orders []*models.BeerOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	byID := make(map[uuid.UUID]*models.BeerOrder, len(orders))
	for i, o := range orders {
		ids[i] = o.ID.String()
		byID[o.ID] = o
		o.Lines = []models.BeerOrderLine{}
	}

	query := "SELECT " + beerOrderLineColumns +
		" FROM beer_order_line WHERE beer_order_id = ANY($1::uuid[]) ORDER BY created_date, id"
	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("error finding beer order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line models.BeerOrderLine
		err := rows.Scan(
			&line.ID,
			&line.Version,
			&line.CreatedDate,
			&line.LastModifiedDate,
			&line.BeerOrderID,
			&line.BeerID,
			&line.OrderQuantity,
			&line.QuantityAllocated,
		)
		if err != nil {
			return fmt.Errorf("error scanning beer order line: %w", err)
		}
		if o, ok := byID[line.BeerOrderID]; ok {
			o.Lines = append(o.Lines, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating beer order lines: %w", err)
	}
	return nil
}

// FindAllByCustomer returns a page of the customer's orders, newest first
func (r *BeerOrderRepository) FindAllByCustomer(ctx context.Context, customerID uuid.UUID, page models.PageRequest) ([]models.BeerOrder, int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beer_order WHERE customer_id = $1", customerID).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error counting beer orders: %w", err)
	}

	query := "SELECT " + beerOrderColumns +
		" FROM beer_order WHERE customer_id = $1 ORDER BY created_date DESC, id LIMIT $2 OFFSET $3"
	rows, err := r.db.QueryContext(ctx, query, customerID, page.PageSize, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("error listing beer orders: %w", err)
	}

	var found []*models.BeerOrder
	for rows.Next() {
		order, err := scanBeerOrder(rows)
		if err != nil {
			rows.Close()
			return nil, 0, err
		}
		found = append(found, order)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, 0, fmt.Errorf("error iterating beer orders: %w", err)
	}
	rows.Close()

	if err := r.loadLines(ctx, found); err != nil {
		return nil, 0, err
	}

	orders := make([]models.BeerOrder, len(found))
	for i, o := range found {
		orders[i] = *o
	}
	return orders, total, nil
}

// FindByID returns an order with its lines
func (r *BeerOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.BeerOrder, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+beerOrderColumns+" FROM beer_order WHERE id = $1", id)
	order, err := scanBeerOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadLines(ctx, []*models.BeerOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// Save inserts an order and its lines in one transaction
func (r *BeerOrderRepository) Save(ctx context.Context, order *models.BeerOrder) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	ts := now()
	order.Version = 0
	order.CreatedDate = ts
	order.LastModifiedDate = ts

	queryOrder := `
		INSERT INTO beer_order (
			id, version, created_date, last_modified_date, customer_id,
			customer_ref, order_status, order_status_callback_url
		) VALUES (
			$1, 0, $2, $2, $3, $4, $5, $6
		)
	`
	_, err = tx.ExecContext(ctx, queryOrder,
		order.ID,
		ts,
		order.CustomerID,
		order.CustomerRef,
		string(order.OrderStatus),
		order.OrderStatusCallbackURL,
	)
	if err != nil {
		return fmt.Errorf("error saving beer order: %w", err)
	}

	queryLine := `
		INSERT INTO beer_order_line (
			id, version, created_date, last_modified_date, beer_order_id,
			beer_id, order_quantity, quantity_allocated
		) VALUES (
			$1, 0, $2, $2, $3, $4, $5, $6
		)
	`
	for i := range order.Lines {
		line := &order.Lines[i]
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		line.BeerOrderID = order.ID
		line.Version = 0
		line.CreatedDate = ts
		line.LastModifiedDate = ts

		_, err = tx.ExecContext(ctx, queryLine,
			line.ID,
			ts,
			order.ID,
			line.BeerID,
			line.OrderQuantity,
			line.QuantityAllocated,
		)
		if err != nil {
			return fmt.Errorf("error saving beer order line: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}
	return nil
}

// Update persists the order status with an optimistic version check
func (r *BeerOrderRepository) Update(ctx context.Context, order *models.BeerOrder) error {
	ts := now()
	query := `
		UPDATE beer_order
		SET order_status = $1, order_status_callback_url = $2,
			version = version + 1, last_modified_date = $3
		WHERE id = $4 AND version = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		string(order.OrderStatus),
		order.OrderStatusCallbackURL,
		ts,
		order.ID,
		order.Version,
	)
	if err != nil {
		return fmt.Errorf("error updating beer order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating beer order: %w", err)
	}
	if rowsAffected == 0 {
		var exists bool
		err := r.db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM beer_order WHERE id = $1)", order.ID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("error checking beer order: %w", err)
		}
		if !exists {
			return repository.ErrOrderNotFound
		}
		return repository.ErrOptimisticLock
	}

	order.Version++
	order.LastModifiedDate = ts
	return nil
}
