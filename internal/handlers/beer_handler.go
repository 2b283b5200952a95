package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/brewery-service/internal/models"
	"github.com/Lixing-Zhang/brewery-service/internal/service"
	"github.com/google/uuid"
)

// beerService is what BeerHandler needs from the beer catalog
type beerService interface {
	ListBeers(ctx context.Context, beerName string, beerStyle models.BeerStyle, page models.PageRequest) (*models.BeerPagedList, error)
	GetBeerByID(ctx context.Context, id uuid.UUID) (*models.BeerDto, error)
}

// BeerHandler handles beer catalog HTTP requests
type BeerHandler struct {
	beerService beerService
	log         *slog.Logger
}

// NewBeerHandler creates a new beer handler
func NewBeerHandler(beerService beerService, log *slog.Logger) *BeerHandler {
	return &BeerHandler{
		beerService: beerService,
		log:         log,
	}
}

// ListBeers handles GET /api/v1/beer
func (h *BeerHandler) ListBeers(w http.ResponseWriter, r *http.Request) {
	page, err := pageRequest(r)
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	beerName := r.URL.Query().Get("beerName")

	var beerStyle models.BeerStyle
	if raw := r.URL.Query().Get("beerStyle"); raw != "" {
		beerStyle, err = models.ParseBeerStyle(raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, err.Error(), h.log)
			return
		}
	}

	list, err := h.beerService.ListBeers(r.Context(), beerName, beerStyle, page)
	if err != nil {
		h.log.Error("failed to list beers", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, list, h.log)
}

// GetBeer handles GET /api/v1/beer/{beerId}
func (h *BeerHandler) GetBeer(w http.ResponseWriter, r *http.Request) {
	beerID, err := uuidParam(r, "beerId")
	if err != nil {
		WriteError(w, http.StatusBadRequest, err.Error(), h.log)
		return
	}

	beer, err := h.beerService.GetBeerByID(r.Context(), beerID)
	if err != nil {
		if errors.Is(err, service.ErrBeerNotFound) {
			h.log.Info("beer not found", "beer_id", beerID)
			WriteError(w, http.StatusNotFound, "Beer not found", h.log)
			return
		}
		h.log.Error("failed to get beer", "beer_id", beerID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, beer, h.log)
}
