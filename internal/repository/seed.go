package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TastingRoom is the name of the seeded customer
const TastingRoom = "Tasting Room"

// Seed loads the bootstrap catalog, the tasting room customer and one open
// order for it. It does nothing when the beer store already holds data.
func Seed(ctx context.Context, beers BeerRepository, customers CustomerRepository, orders BeerOrderRepository, log *slog.Logger) error {
	count, err := beers.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count beers: %w", err)
	}
	if count > 0 {
		log.Debug("beer store not empty, skipping seed", "beers", count)
		return nil
	}

	catalog := []models.Beer{
		{BeerName: "Mango Bobs", BeerStyle: models.BeerStyleIPA, UPC: 337010000001, Price: decimal.RequireFromString("12.95"), QuantityOnHand: 500, MinOnHand: 12, QuantityToBrew: 200},
		{BeerName: "Galaxy Cat", BeerStyle: models.BeerStylePaleAle, UPC: 337010000002, Price: decimal.RequireFromString("11.95"), QuantityOnHand: 500, MinOnHand: 12, QuantityToBrew: 200},
		{BeerName: "Pinball Porter", BeerStyle: models.BeerStylePorter, UPC: 337010000003, Price: decimal.RequireFromString("12.95"), QuantityOnHand: 500, MinOnHand: 12, QuantityToBrew: 200},
	}
	for i := range catalog {
		if err := beers.Save(ctx, &catalog[i]); err != nil {
			return fmt.Errorf("failed to seed beer %q: %w", catalog[i].BeerName, err)
		}
	}

	customer := models.Customer{
		CustomerName: TastingRoom,
		APIKey:       uuid.New(),
	}
	if err := customers.Save(ctx, &customer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	order := models.BeerOrder{
		CustomerID:             customer.ID,
		CustomerRef:            "testOrder1",
		OrderStatus:            models.OrderStatusNew,
		OrderStatusCallbackURL: "http://example.com/post",
		Lines: []models.BeerOrderLine{
			{BeerID: catalog[1].ID, OrderQuantity: 15},
		},
	}
	if err := orders.Save(ctx, &order); err != nil {
		return fmt.Errorf("failed to seed order: %w", err)
	}

	log.Info("seeded brewery data",
		"beers", len(catalog),
		"customer_id", customer.ID,
		"order_id", order.ID,
	)
	return nil
}
