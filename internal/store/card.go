package store

import (
	"context"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// CardUpdate carries a partial update of a card's mutable fields.
// A nil pointer leaves the corresponding field unchanged.
type CardUpdate struct {
	Front *string
	Back  *string
}

// CardStore defines the interface for card data persistence.
//
// Cards are scoped by their parent deck rather than by owner: callers
// prove ownership of the deck one layer up before touching its cards.
type CardStore interface {
	// Create saves a new card to the store, assigning its ID and
	// persisting its timestamps. The card must be valid according to
	// domain validation rules. Returns ErrInvalidEntity if the parent
	// deck does not exist (foreign key violation).
	Create(ctx context.Context, card *domain.Card) error

	// GetForDeck retrieves a card by ID iff it belongs to deckID.
	// Returns ErrCardNotFound otherwise.
	GetForDeck(ctx context.Context, cardID, deckID int64) (*domain.Card, error)

	// ListByDeck retrieves all cards of a deck ordered by updated_at
	// descending (most recently touched first). The ordering is
	// load-bearing for the UI's "recent first" expectation.
	ListByDeck(ctx context.Context, deckID int64) ([]*domain.Card, error)

	// Update applies the supplied partial update to the card and
	// refreshes its updated_at timestamp. Returns the updated card, or
	// ErrCardNotFound if the id+deck scoping fails.
	Update(ctx context.Context, cardID, deckID int64, update CardUpdate) (*domain.Card, error)

	// Delete removes the card. Returns ErrCardNotFound if the id+deck
	// scoping fails.
	Delete(ctx context.Context, cardID, deckID int64) error

	// WithTx returns a CardStore bound to the given transaction.
	WithTx(tx DBTX) CardStore
}
