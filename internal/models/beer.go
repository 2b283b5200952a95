package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BeerStyle is the style a beer is brewed in
type BeerStyle string

const (
	BeerStyleLager   BeerStyle = "LAGER"
	BeerStylePilsner BeerStyle = "PILSNER"
	BeerStyleStout   BeerStyle = "STOUT"
	BeerStyleGose    BeerStyle = "GOSE"
	BeerStylePorter  BeerStyle = "PORTER"
	BeerStyleAle     BeerStyle = "ALE"
	BeerStyleWheat   BeerStyle = "WHEAT"
	BeerStyleIPA     BeerStyle = "IPA"
	BeerStylePaleAle BeerStyle = "PALE_ALE"
	BeerStyleSaison  BeerStyle = "SAISON"
)

var beerStyles = map[BeerStyle]struct{}{
	BeerStyleLager:   {},
	BeerStylePilsner: {},
	BeerStyleStout:   {},
	BeerStyleGose:    {},
	BeerStylePorter:  {},
	BeerStyleAle:     {},
	BeerStyleWheat:   {},
	BeerStyleIPA:     {},
	BeerStylePaleAle: {},
	BeerStyleSaison:  {},
}

// ParseBeerStyle converts s to a BeerStyle. Matching is exact.
func ParseBeerStyle(s string) (BeerStyle, error) {
	style := BeerStyle(s)
	if _, ok := beerStyles[style]; !ok {
		return "", fmt.Errorf("unknown beer style %q", s)
	}
	return style, nil
}

// Beer is the persisted beer entity
type Beer struct {
	ID               uuid.UUID
	Version          int
	CreatedDate      time.Time
	LastModifiedDate time.Time
	BeerName         string
	BeerStyle        BeerStyle
	UPC              int64
	Price            decimal.Decimal
	QuantityOnHand   int
	MinOnHand        int
	QuantityToBrew   int
}

// BeerDto is the JSON representation of a beer.
// Price is serialized as a string to keep its exact decimal value.
type BeerDto struct {
	ID               uuid.UUID       `json:"id"`
	Version          int             `json:"version"`
	BeerName         string          `json:"beerName"`
	BeerStyle        BeerStyle       `json:"beerStyle"`
	UPC              int64           `json:"upc"`
	Price            decimal.Decimal `json:"price"`
	QuantityOnHand   int             `json:"quantityOnHand"`
	CreatedDate      DateTime        `json:"createdDate"`
	LastModifiedDate DateTime        `json:"lastModifiedDate"`
}
