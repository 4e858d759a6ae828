package api

import (
	"log/slog"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service"
)

// DeckHandler handles deck-related HTTP requests
type DeckHandler struct {
	deckService service.DeckService
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler
func NewDeckHandler(deckService service.DeckService, logger *slog.Logger) *DeckHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for DeckHandler")
	}

	return &DeckHandler{
		deckService: deckService,
		logger:      logger.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /decks requests.
// It returns every deck the caller owns together with its card count.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	decks, err := h.deckService.ListDecksWithCardCounts(r.Context(), identity)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list decks")
		return
	}

	response := make([]DeckListItemResponse, 0, len(decks))
	for _, deck := range decks {
		response = append(response, deckWithCountToResponse(deck))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// GetDeck handles GET /decks/{deckID} requests.
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	deck, err := h.deckService.GetDeck(r.Context(), identity, deckID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// CreateDeck handles POST /decks requests.
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	var req CreateDeckRequest
	if !bindRequest(w, r, &req) {
		return
	}

	deck, err := h.deckService.CreateDeck(r.Context(), identity, req.Name, req.Description)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("deck created via API",
		slog.Int64("deck_id", deck.ID),
		slog.String("user_id", identity.UserID))
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(deck))
}

// UpdateDeck handles PUT /decks/{deckID} requests.
func (h *DeckHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	var req UpdateDeckRequest
	if !bindRequest(w, r, &req) {
		return
	}

	deck, err := h.deckService.UpdateDeck(r.Context(), identity, deckID, service.DeckUpdateInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(deck))
}

// DeleteDeck handles DELETE /decks/{deckID} requests.
// Deleting a deck also removes every card it contains.
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	identity, ok := getIdentity(w, r)
	if !ok {
		return
	}

	deckID, ok := getPathID(w, r, "deckID")
	if !ok {
		return
	}

	if err := h.deckService.DeleteDeck(r.Context(), identity, deckID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// bindRequest decodes and validates a JSON request body, writing a 400
// response on failure. Returns true when the body bound cleanly.
func bindRequest(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := shared.DecodeJSON(r, v); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := shared.ValidateRequest(v); err != nil {
		if field, rule, ok := shared.FieldViolation(err); ok {
			HandleAPIError(w, r, service.NewValidationError(
				field, "failed on the "+rule+" rule", nil), "")
			return false
		}
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error")
		return false
	}

	return true
}
