package service

import (
	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/google/uuid"
)

// BeerToDto maps a beer entity to its JSON representation
func BeerToDto(beer models.Beer) models.BeerDto {
	return models.BeerDto{
		ID:               beer.ID,
		Version:          beer.Version,
		BeerName:         beer.BeerName,
		BeerStyle:        beer.BeerStyle,
		UPC:              beer.UPC,
		Price:            beer.Price,
		QuantityOnHand:   beer.QuantityOnHand,
		CreatedDate:      models.NewDateTime(beer.CreatedDate),
		LastModifiedDate: models.NewDateTime(beer.LastModifiedDate),
	}
}

// BeerOrderToDto maps an order entity to its JSON representation. Lines are
// enriched with catalog data from beers; lines whose beer is missing from
// the map keep only the beer id.
func BeerOrderToDto(order models.BeerOrder, beers map[uuid.UUID]models.Beer) models.BeerOrderDto {
	lines := make([]models.BeerOrderLineDto, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, beerOrderLineToDto(line, beers))
	}

	return models.BeerOrderDto{
		ID:                     order.ID,
		Version:                order.Version,
		CreatedDate:            models.NewDateTime(order.CreatedDate),
		LastModifiedDate:       models.NewDateTime(order.LastModifiedDate),
		CustomerID:             order.CustomerID,
		CustomerRef:            order.CustomerRef,
		BeerOrderLines:         lines,
		OrderStatus:            order.OrderStatus,
		OrderStatusCallbackURL: order.OrderStatusCallbackURL,
	}
}

func beerOrderLineToDto(line models.BeerOrderLine, beers map[uuid.UUID]models.Beer) models.BeerOrderLineDto {
	dto := models.BeerOrderLineDto{
		ID:                line.ID,
		Version:           line.Version,
		CreatedDate:       models.NewDateTime(line.CreatedDate),
		LastModifiedDate:  models.NewDateTime(line.LastModifiedDate),
		BeerID:            line.BeerID,
		OrderQuantity:     line.OrderQuantity,
		QuantityAllocated: line.QuantityAllocated,
	}
	if beer, ok := beers[line.BeerID]; ok {
		dto.UPC = beer.UPC
		dto.BeerName = beer.BeerName
		dto.BeerStyle = beer.BeerStyle
		dto.Price = beer.Price
	}
	return dto
}

// CustomerToDto maps a customer entity to its JSON representation
func CustomerToDto(customer models.Customer) models.CustomerDto {
	return models.CustomerDto{
		ID:               customer.ID,
		Version:          customer.Version,
		CustomerName:     customer.CustomerName,
		CreatedDate:      models.NewDateTime(customer.CreatedDate),
		LastModifiedDate: models.NewDateTime(customer.LastModifiedDate),
	}
}
