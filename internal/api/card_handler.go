package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// CardHandler handles card-related HTTP requests
type CardHandler struct {
	cardService service.CardService
	logger      *slog.Logger
}

// NewCardHandler creates a new CardHandler
func NewCardHandler(cardService service.CardService, logger *slog.Logger) *CardHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		cardService: cardService,
		logger:      logger.With(slog.String("component", "card_handler")),
	}
}

// ListCards handles GET /decks/{deckID}/cards requests.
// Cards come back most recently updated first.
func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), identity, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardsToResponse(cards))
}

// GetCard handles GET /decks/{deckID}/cards/{cardID} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	cardID, ok := getPathID(w, r, "cardID")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(r.Context(), identity, deckID, cardID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// CreateCard handles POST /decks/{deckID}/cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	var req CreateCardRequest
	if !bindRequest(w, r, &req) {
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), identity, deckID, req.Front, req.Back)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("card created via API",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", deckID))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// UpdateCard handles PUT /decks/{deckID}/cards/{cardID} requests.
func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	cardID, ok := getPathID(w, r, "cardID")
	if !ok {
		return
	}

	var req UpdateCardRequest
	if !bindRequest(w, r, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(r.Context(), identity, deckID, cardID, service.CardUpdateInput{
		Front: req.Front,
		Back:  req.Back,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// DeleteCard handles DELETE /decks/{deckID}/cards/{cardID} requests.
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	cardID, ok := getPathID(w, r, "cardID")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(r.Context(), identity, deckID, cardID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
