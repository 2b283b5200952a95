package service

import (
	"context"
	"fmt"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/repository"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("github.com/Lixing-Zhang/brewery-service/internal/service")

// BeerService handles business logic for the beer catalog
type BeerService struct {
	repo repository.BeerRepository
}

// NewBeerService creates a new beer service
func NewBeerService(repo repository.BeerRepository) *BeerService {
	return &BeerService{
		repo: repo,
	}
}

// ListBeers returns a page of beers. An empty beerName or beerStyle means
// the filter was not supplied.
func (s *BeerService) ListBeers(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) (*models.BeerPagedList, error) {
	ctx, span := tracer.Start(ctx, "BeerService.ListBeers")
	defer span.End()
	span.SetAttributes(
		attribute.String("beer.name", beerName),
		attribute.String("beer.style", string(beerStyle)),
		attribute.Int("page.number", page.PageNumber),
		attribute.Int("page.size", page.PageSize),
	)

	var (
		beers []models.Beer
		total int
		err   error
	)

	switch {
	case beerName != "" && beerStyle != "":
		beers, total, err = s.repo.FindAllByBeerNameAndBeerStyle(ctx, beerName, beerStyle, page)
	case beerName != "":
		beers, total, err = s.repo.FindAllByBeerName(ctx, beerName, page)
	case beerStyle != "":
		beers, total, err = s.repo.FindAllByBeerStyle(ctx, beerStyle, page)
	default:
		beers, total, err = s.repo.FindAll(ctx, page)
	}
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list beers: %w", err)
	}

	dtos := make([]models.BeerDto, 0, len(beers))
	for _, beer := range beers {
		dtos = append(dtos, BeerToDto(beer))
	}

	list := models.NewPage(dtos, page, total)
	return &list, nil
}

// GetBeerByID returns a beer by ID
func (s *BeerService) GetBeerByID(ctx context.Context, id uuid.UUID) (*models.BeerDto, error) {
	ctx, span := tracer.Start(ctx, "BeerService.GetBeerByID")
	defer span.End()
	span.SetAttributes(attribute.String("beer.id", id.String()))

	beer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get beer %s: %w", id, err)
	}

	dto := BeerToDto(*beer)
	return &dto, nil
}
