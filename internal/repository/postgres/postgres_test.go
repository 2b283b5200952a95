package postgres

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	now = func() time.Time { return fixedNow }
	t.Cleanup(func() {
		now = func() time.Time { return time.Now().UTC() }
		db.Close()
	})
	return db, mock
}

func expectationsMet(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

var beerRowColumns = []string{
	"id", "version", "created_date", "last_modified_date", "beer_name", "beer_style",
	"upc", "price", "quantity_on_hand", "min_on_hand", "quantity_to_brew",
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS beer`).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Migrate(context.Background(), db); err != nil {
		t.Fatalf("Migrate() unexpected error: %v", err)
	}
	expectationsMet(t, mock)
}

func TestBeerRepository_FindAllByBeerNameAndBeerStyle(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerRepository(db)
	id := uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beer WHERE beer_name = \$1 AND beer_style = \$2`).
		WithArgs("Cruzcampo", "PALE_ALE").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(31))

	mock.ExpectQuery(`(?s)SELECT .+ FROM beer WHERE beer_name = \$1 AND beer_style = \$2 ORDER BY beer_name, id LIMIT \$3 OFFSET \$4`).
		WithArgs("Cruzcampo", "PALE_ALE", 15, 30).
		WillReturnRows(sqlmock.NewRows(beerRowColumns).
			AddRow(id.String(), 1, fixedNow, fixedNow, "Cruzcampo", "PALE_ALE", int64(123456789012), "12.99", 4, 12, 200))

	beers, total, err := repo.FindAllByBeerNameAndBeerStyle(context.Background(), "Cruzcampo", models.BeerStylePaleAle, models.NewPageRequest(2, 15))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 31 {
		t.Errorf("total = %d, want 31", total)
	}
	if len(beers) != 1 {
		t.Fatalf("len(beers) = %d, want 1", len(beers))
	}

	beer := beers[0]
	if beer.ID != id || beer.BeerStyle != models.BeerStylePaleAle || beer.UPC != 123456789012 {
		t.Errorf("unexpected beer %+v", beer)
	}
	if !beer.Price.Equal(decimal.RequireFromString("12.99")) {
		t.Errorf("Price = %s, want 12.99", beer.Price)
	}
	expectationsMet(t, mock)
}

func TestBeerRepository_FindAll(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beer$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`(?s)SELECT .+ FROM beer ORDER BY beer_name, id LIMIT \$1 OFFSET \$2`).
		WithArgs(25, 0).
		WillReturnRows(sqlmock.NewRows(beerRowColumns))

	beers, total, err := repo.FindAll(context.Background(), models.DefaultPageRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 0 || len(beers) != 0 {
		t.Errorf("expected empty result, got total=%d len=%d", total, len(beers))
	}
	expectationsMet(t, mock)
}

func TestBeerRepository_FindAll_ExtremePages(t *testing.T) {
	tests := []struct {
		name       string
		page       models.PageRequest
		wantLimit  int
		wantOffset int
	}{
		{"page size clamped", models.NewPageRequest(0, 1<<62), models.MaxPageSize, 0},
		{"unclamped page size", models.PageRequest{PageNumber: 0, PageSize: 1 << 62}, 1 << 62, 0},
		{"offset saturates", models.NewPageRequest(1<<62, 4), 4, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMock(t)
			repo := NewBeerRepository(db)

			mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beer$`).
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
			mock.ExpectQuery(`(?s)SELECT .+ FROM beer ORDER BY beer_name, id LIMIT \$1 OFFSET \$2`).
				WithArgs(tt.wantLimit, tt.wantOffset).
				WillReturnRows(sqlmock.NewRows(beerRowColumns))

			beers, total, err := repo.FindAll(context.Background(), tt.page)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if total != 2 || len(beers) != 0 {
				t.Errorf("expected empty page of 2, got total=%d len=%d", total, len(beers))
			}
			expectationsMet(t, mock)
		})
	}
}

func TestBeerRepository_FindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerRepository(db)
		id := uuid.New()

		mock.ExpectQuery(`(?s)SELECT .+ FROM beer WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(beerRowColumns).
				AddRow(id.String(), 0, fixedNow, fixedNow, "Aguila", "PORTER", int64(323456789012), "13.99", 3, 0, 0))

		beer, err := repo.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if beer.BeerName != "Aguila" {
			t.Errorf("BeerName = %s, want Aguila", beer.BeerName)
		}
		expectationsMet(t, mock)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerRepository(db)

		mock.ExpectQuery(`(?s)SELECT .+ FROM beer WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(beerRowColumns))

		if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, repository.ErrBeerNotFound) {
			t.Errorf("expected ErrBeerNotFound, got %v", err)
		}
		expectationsMet(t, mock)
	})
}

func TestBeerRepository_Save(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerRepository(db)

	beer := &models.Beer{
		BeerName:  "Mahou",
		BeerStyle: models.BeerStyleLager,
		UPC:       423456789012,
		Price:     decimal.RequireFromString("9.99"),
	}

	mock.ExpectQuery(`(?s)INSERT INTO beer .+ON CONFLICT \(id\) DO UPDATE.+RETURNING version, created_date, last_modified_date`).
		WithArgs(sqlmock.AnyArg(), fixedNow, "Mahou", "LAGER", int64(423456789012), "9.99", 0, 0, 0).
		WillReturnRows(sqlmock.NewRows([]string{"version", "created_date", "last_modified_date"}).
			AddRow(0, fixedNow, fixedNow))

	if err := repo.Save(context.Background(), beer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if beer.ID == uuid.Nil {
		t.Error("expected ID to be assigned")
	}
	if !beer.CreatedDate.Equal(fixedNow) {
		t.Errorf("CreatedDate = %v, want %v", beer.CreatedDate, fixedNow)
	}
	expectationsMet(t, mock)
}

func TestBeerRepository_Count(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerRepository(db)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beer`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("Count() = %d, want 3", count)
	}
	expectationsMet(t, mock)
}

func TestCustomerRepository(t *testing.T) {
	columns := []string{"id", "version", "created_date", "last_modified_date", "customer_name", "api_key"}

	t.Run("find by id", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewCustomerRepository(db)
		id := uuid.New()

		mock.ExpectQuery(`SELECT .+ FROM customer WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(id.String(), 0, fixedNow, fixedNow, "Tasting Room", uuid.NewString()))

		customer, err := repo.FindByID(context.Background(), id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if customer.CustomerName != "Tasting Room" {
			t.Errorf("CustomerName = %s", customer.CustomerName)
		}
		expectationsMet(t, mock)
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewCustomerRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM customer WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows(columns))

		if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, repository.ErrCustomerNotFound) {
			t.Errorf("expected ErrCustomerNotFound, got %v", err)
		}
	})

	t.Run("find all", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewCustomerRepository(db)

		mock.ExpectQuery(`SELECT .+ FROM customer ORDER BY created_date`).
			WillReturnRows(sqlmock.NewRows(columns).
				AddRow(uuid.NewString(), 0, fixedNow, fixedNow, "Tasting Room", uuid.NewString()).
				AddRow(uuid.NewString(), 0, fixedNow, fixedNow, "Bottle Shop", uuid.NewString()))

		customers, err := repo.FindAll(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(customers) != 2 {
			t.Errorf("len(customers) = %d, want 2", len(customers))
		}
		expectationsMet(t, mock)
	})

	t.Run("save", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewCustomerRepository(db)
		customer := &models.Customer{CustomerName: "Bottle Shop", APIKey: uuid.New()}

		mock.ExpectQuery(`(?s)INSERT INTO customer .+RETURNING`).
			WithArgs(sqlmock.AnyArg(), fixedNow, "Bottle Shop", customer.APIKey).
			WillReturnRows(sqlmock.NewRows([]string{"version", "created_date", "last_modified_date"}).
				AddRow(0, fixedNow, fixedNow))

		if err := repo.Save(context.Background(), customer); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expectationsMet(t, mock)
	})
}

var (
	orderRowColumns = []string{
		"id", "version", "created_date", "last_modified_date", "customer_id",
		"customer_ref", "order_status", "order_status_callback_url",
	}
	lineRowColumns = []string{
		"id", "version", "created_date", "last_modified_date", "beer_order_id",
		"beer_id", "order_quantity", "quantity_allocated",
	}
)

func TestBeerOrderRepository_FindByID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerOrderRepository(db)
	orderID, customerID, beerID := uuid.New(), uuid.New(), uuid.New()

	mock.ExpectQuery(`(?s)SELECT .+ FROM beer_order WHERE id = \$1`).
		WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(orderID.String(), 1, fixedNow, fixedNow, customerID.String(), "123456789012L", "NEW", nil))
	mock.ExpectQuery(`(?s)SELECT .+ FROM beer_order_line WHERE beer_order_id = ANY\(\$1::uuid\[\]\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(lineRowColumns).
			AddRow(uuid.NewString(), 0, fixedNow, fixedNow, orderID.String(), beerID.String(), 15, 0))

	order, err := repo.FindByID(context.Background(), orderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if order.CustomerID != customerID || order.CustomerRef != "123456789012L" {
		t.Errorf("unexpected order %+v", order)
	}
	if order.OrderStatusCallbackURL != "" {
		t.Errorf("expected empty callback url for NULL, got %q", order.OrderStatusCallbackURL)
	}
	if len(order.Lines) != 1 || order.Lines[0].BeerID != beerID || order.Lines[0].OrderQuantity != 15 {
		t.Errorf("unexpected lines %+v", order.Lines)
	}
	expectationsMet(t, mock)
}

func TestBeerOrderRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerOrderRepository(db)

	mock.ExpectQuery(`(?s)SELECT .+ FROM beer_order WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows(orderRowColumns))

	if _, err := repo.FindByID(context.Background(), uuid.New()); !errors.Is(err, repository.ErrOrderNotFound) {
		t.Errorf("expected ErrOrderNotFound, got %v", err)
	}
	expectationsMet(t, mock)
}

func TestBeerOrderRepository_FindAllByCustomer(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBeerOrderRepository(db)
	customerID := uuid.New()
	first, second := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM beer_order WHERE customer_id = \$1`).
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(`(?s)SELECT .+ FROM beer_order WHERE customer_id = \$1 ORDER BY created_date DESC, id LIMIT \$2 OFFSET \$3`).
		WithArgs(customerID, 25, 0).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(first.String(), 0, fixedNow, fixedNow, customerID.String(), "a", "NEW", "http://example.com/post").
			AddRow(second.String(), 2, fixedNow, fixedNow, customerID.String(), "b", "PICKED_UP", nil))
	mock.ExpectQuery(`FROM beer_order_line`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(lineRowColumns).
			AddRow(uuid.NewString(), 0, fixedNow, fixedNow, second.String(), uuid.NewString(), 2, 0).
			AddRow(uuid.NewString(), 0, fixedNow, fixedNow, second.String(), uuid.NewString(), 3, 0))

	orders, total, err := repo.FindAllByCustomer(context.Background(), customerID, models.DefaultPageRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(orders) != 2 {
		t.Fatalf("total=%d len=%d, want 2 and 2", total, len(orders))
	}
	if len(orders[0].Lines) != 0 {
		t.Errorf("first order lines = %d, want 0", len(orders[0].Lines))
	}
	if len(orders[1].Lines) != 2 {
		t.Errorf("second order lines = %d, want 2", len(orders[1].Lines))
	}
	if orders[1].OrderStatus != models.OrderStatusPickedUp {
		t.Errorf("OrderStatus = %s, want PICKED_UP", orders[1].OrderStatus)
	}
	expectationsMet(t, mock)
}

func TestBeerOrderRepository_Save(t *testing.T) {
	newOrder := func() *models.BeerOrder {
		return &models.BeerOrder{
			CustomerID:  uuid.New(),
			CustomerRef: "ref-1",
			OrderStatus: models.OrderStatusNew,
			Lines: []models.BeerOrderLine{
				{BeerID: uuid.New(), OrderQuantity: 6},
			},
		}
	}

	t.Run("commits order and lines", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerOrderRepository(db)
		order := newOrder()

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO beer_order \(`).
			WithArgs(sqlmock.AnyArg(), fixedNow, order.CustomerID, "ref-1", "NEW", "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO beer_order_line`).
			WithArgs(sqlmock.AnyArg(), fixedNow, sqlmock.AnyArg(), order.Lines[0].BeerID, 6, 0).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		if err := repo.Save(context.Background(), order); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if order.ID == uuid.Nil || order.Lines[0].BeerOrderID != order.ID {
			t.Errorf("ids not assigned: %+v", order)
		}
		expectationsMet(t, mock)
	})

	t.Run("rolls back on line failure", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerOrderRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO beer_order \(`).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`INSERT INTO beer_order_line`).WillReturnError(errors.New("fk violation"))
		mock.ExpectRollback()

		if err := repo.Save(context.Background(), newOrder()); err == nil {
			t.Error("expected error, got nil")
		}
		expectationsMet(t, mock)
	})
}

func TestBeerOrderRepository_Update(t *testing.T) {
	order := func() *models.BeerOrder {
		return &models.BeerOrder{ID: uuid.New(), Version: 3, OrderStatus: models.OrderStatusPickedUp}
	}

	t.Run("success", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerOrderRepository(db)
		o := order()

		mock.ExpectExec(`UPDATE beer_order`).
			WithArgs("PICKED_UP", "", fixedNow, o.ID, 3).
			WillReturnResult(sqlmock.NewResult(0, 1))

		if err := repo.Update(context.Background(), o); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if o.Version != 4 {
			t.Errorf("Version = %d, want 4", o.Version)
		}
		expectationsMet(t, mock)
	})

	t.Run("stale version", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerOrderRepository(db)

		mock.ExpectExec(`UPDATE beer_order`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		if err := repo.Update(context.Background(), order()); !errors.Is(err, repository.ErrOptimisticLock) {
			t.Errorf("expected ErrOptimisticLock, got %v", err)
		}
		expectationsMet(t, mock)
	})

	t.Run("missing order", func(t *testing.T) {
		db, mock := newMock(t)
		repo := NewBeerOrderRepository(db)

		mock.ExpectExec(`UPDATE beer_order`).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		if err := repo.Update(context.Background(), order()); !errors.Is(err, repository.ErrOrderNotFound) {
			t.Errorf("expected ErrOrderNotFound, got %v", err)
		}
		expectationsMet(t, mock)
	})
}
