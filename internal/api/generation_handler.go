package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// GenerationHandler handles AI card generation HTTP requests
type GenerationHandler struct {
	generationService service.GenerationService
	logger            *slog.Logger
}

// NewGenerationHandler creates a new GenerationHandler
func NewGenerationHandler(
	generationService service.GenerationService,
	logger *slog.Logger,
) *GenerationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GenerationHandler")
	}

	return &GenerationHandler{
		generationService: generationService,
		logger:            logger.With(slog.String("component", "generation_handler")),
	}
}

// GenerateCards handles POST /decks/{deckID}/generate requests.
// The response's cards_created count is the ground truth of what was
// persisted, which may be fewer than the model proposed.
func (h *GenerationHandler) GenerateCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	result, err := h.generationService.GenerateCards(r.Context(), identity, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Info("cards generated via API",
		slog.Int64("deck_id", deckID),
		slog.Int("cards_created", result.CardsCreated))

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerationResponse{
		CardsCreated: result.CardsCreated,
		Cards:        cardsToResponse(result.Cards),
	})
}
