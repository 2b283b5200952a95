package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
)

const beerColumns = `id, version, created_date, last_modified_date, beer_name, beer_style,
	upc, price, quantity_on_hand, min_on_hand, quantity_to_brew`

// BeerRepository implements repository.BeerRepository using PostgreSQL
type BeerRepository struct {
	db *sql.DB
}

// NewBeerRepository creates a new beer repository
func NewBeerRepository(db *sql.DB) *BeerRepository {
	return &BeerRepository{db: db}
}

// beerFilter is one equality condition on a beer column
type beerFilter struct {
	column string
	value  interface{}
}

// whereClause renders filters as a WHERE clause with $n placeholders
func whereClause(filters []beerFilter) (string, []interface{}) {
	if len(filters) == 0 {
		return "", nil
	}

	conditions := make([]string, 0, len(filters))
	args := make([]interface{}, 0, len(filters))
	for i, f := range filters {
		conditions = append(conditions, f.column+" = $"+strconv.Itoa(i+1))
		args = append(args, f.value)
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (r *BeerRepository) find(ctx context.Context, page models.PageRequest, filters ...beerFilter) ([]models.Beer, int, error) {
	where, args := whereClause(filters)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beer"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting beers: %w", err)
	}

	n := len(args)
	query := fmt.Sprintf("SELECT %s FROM beer%s ORDER BY beer_name, id LIMIT $%d OFFSET $%d",
		beerColumns, where, n+1, n+2)
	args = append(args, page.PageSize, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing beers: %w", err)
	}
	defer rows.Close()

	beers := make([]models.Beer, 0, min(page.PageSize, total))
	for rows.Next() {
		beer, err := scanBeer(rows)
		if err != nil {
			return nil, 0, err
		}
		beers = append(beers, *beer)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating beers: %w", err)
	}

	return beers, total, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBeer(s scanner) (*models.Beer, error) {
	var beer models.Beer
	var style string
	err := s.Scan(
		&beer.ID,
		&beer.Version,
		&beer.CreatedDate,
		&beer.LastModifiedDate,
		&beer.BeerName,
		&style,
		&beer.UPC,
		&beer.Price,
		&beer.QuantityOnHand,
		&beer.MinOnHand,
		&beer.QuantityToBrew,
	)
	if err != nil {
		return nil, fmt.Errorf("error scanning beer: %w", err)
	}
	beer.BeerStyle = models.BeerStyle(style)
	return &beer, nil
}

// FindAll returns a page of all beers
func (r *BeerRepository) FindAll(ctx context.Context, page models.PageRequest) ([]models.Beer, int, error) {
	return r.find(ctx, page)
}

// FindAllByBeerName returns a page of beers whose name equals beerName
func (r *BeerRepository) FindAllByBeerName(ctx context.Context, beerName string, page models.PageRequest) ([]models.Beer, int, error) {
	return r.find(ctx, page, beerFilter{"beer_name", beerName})
}

// FindAllByBeerStyle returns a page of beers of the given style
func (r *BeerRepository) FindAllByBeerStyle(ctx context.Context, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error) {
	return r.find(ctx, page, beerFilter{"beer_style", string(beerStyle)})
}

// FindAllByBeerNameAndBeerStyle returns a page of beers matching both name and style
func (r *BeerRepository) FindAllByBeerNameAndBeerStyle(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) ([]models.Beer, int, error) {
	return r.find(ctx, page, beerFilter{"beer_name", beerName}, beerFilter{"beer_style", string(beerStyle)})
}

// FindByID returns a beer by its ID
func (r *BeerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Beer, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+beerColumns+" FROM beer WHERE id = $1", id)
	beer, err := scanBeer(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrBeerNotFound
	}
	if err != nil {
		return nil, err
	}
	return beer, nil
}

// Save inserts a beer or updates the stored one, bumping its version
func (r *BeerRepository) Save(ctx context.Context, beer *models.Beer) error {
	if beer.ID == uuid.Nil {
		beer.ID = uuid.New()
	}
	ts := now()

	query := `
		INSERT INTO beer (
			id, version, created_date, last_modified_date, beer_name, beer_style,
			upc, price, quantity_on_hand, min_on_hand, quantity_to_brew
		) VALUES (
			$1, 0, $2, $2, $3, $4, $5, $6, $7, $8, $9
		)
		ON CONFLICT (id) DO UPDATE SET
			version = beer.version + 1,
			last_modified_date = EXCLUDED.last_modified_date,
			beer_name = EXCLUDED.beer_name,
			beer_style = EXCLUDED.beer_style,
			upc = EXCLUDED.upc,
			price = EXCLUDED.price,
			quantity_on_hand = EXCLUDED.quantity_on_hand,
			min_on_hand = EXCLUDED.min_on_hand,
			quantity_to_brew = EXCLUDED.quantity_to_brew
		RETURNING version, created_date, last_modified_date
	`

	err := r.db.QueryRowContext(ctx, query,
		beer.ID,
		ts,
		beer.BeerName,
		string(beer.BeerStyle),
		beer.UPC,
		beer.Price,
		beer.QuantityOnHand,
		beer.MinOnHand,
		beer.QuantityToBrew,
	).Scan(&beer.Version, &beer.CreatedDate, &beer.LastModifiedDate)
	if err != nil {
		return fmt.Errorf("error saving beer: %w", err)
	}
	return nil
}

// Count returns the number of stored beers
func (r *BeerRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM beer").Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting beers: %w", err)
	}
	return count, nil
}
