package api

import (
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// CreateDeckRequest is the request body for creating a deck.
type CreateDeckRequest struct {
	Name        string  `json:"name"        validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// UpdateDeckRequest is the request body for a partial deck update.
type UpdateDeckRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=255"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// CreateCardRequest is the request body for creating a card.
type CreateCardRequest struct {
	Front string `json:"front" validate:"required,max=2000"`
	Back  string `json:"back"  validate:"required,max=2000"`
}

// UpdateCardRequest is the request body for a partial card update.
type UpdateCardRequest struct {
	Front *string `json:"front" validate:"omitempty,max=2000"`
	Back  *string `json:"back"  validate:"omitempty,max=2000"`
}

// DeckResponse represents the response data for a deck
type DeckResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckListItemResponse is a deck plus its card count, for the dashboard.
type DeckListItemResponse struct {
	DeckResponse
	CardCount int `json:"card_count"`
}

// CardResponse represents the response data for a card
type CardResponse struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GenerationResponse is the envelope returned by the generate endpoint.
type GenerationResponse struct {
	CardsCreated int            `json:"cards_created"`
	Cards        []CardResponse `json:"cards"`
}

func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID,
		Name:        deck.Name,
		Description: deck.Description,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

func deckWithCountToResponse(deck *store.DeckWithCardCount) DeckListItemResponse {
	return DeckListItemResponse{
		DeckResponse: deckToResponse(&deck.Deck),
		CardCount:    deck.CardCount,
	}
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:        card.ID,
		DeckID:    card.DeckID,
		Front:     card.Front,
		Back:      card.Back,
		CreatedAt: card.CreatedAt,
		UpdatedAt: card.UpdatedAt,
	}
}

func cardsToResponse(cards []*domain.Card) []CardResponse {
	out := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, cardToResponse(card))
	}
	return out
}
