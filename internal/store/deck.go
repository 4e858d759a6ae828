package store

import (
	"context"
	"database/sql"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// DeckUpdate carries a partial update of a deck's mutable fields.
// A nil pointer leaves the corresponding field unchanged. A Description
// that trims to empty clears the stored value.
type DeckUpdate struct {
	Name        *string
	Description *string
}

// DeckWithCardCount is a deck joined with the number of cards it holds,
// used by the dashboard listing.
type DeckWithCardCount struct {
	domain.Deck
	CardCount int `json:"card_count"`
}

// DeckStore defines the interface for deck data persistence.
//
// Every lookup and mutation is scoped by the owning identity: a deck
// owned by someone else behaves exactly like a deck that does not
// exist, and the store reports ErrDeckNotFound for both.
type DeckStore interface {
	// Create saves a new deck to the store, assigning its ID and
	// persisting its timestamps. The deck must be valid according to
	// domain validation rules.
	Create(ctx context.Context, deck *domain.Deck) error

	// GetForOwner retrieves a deck by ID iff it is owned by ownerID.
	// Returns ErrDeckNotFound otherwise.
	GetForOwner(ctx context.Context, deckID int64, ownerID string) (*domain.Deck, error)

	// ListByOwner retrieves all decks owned by ownerID.
	// No ordering is guaranteed. Returns an empty slice when the owner
	// has no decks.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deck, error)

	// ListWithCardCounts retrieves all decks owned by ownerID together
	// with the number of cards in each.
	ListWithCardCounts(ctx context.Context, ownerID string) ([]*DeckWithCardCount, error)

	// CountByOwner returns the number of decks currently owned by
	// ownerID. Used by the deck-creation quota check.
	CountByOwner(ctx context.Context, ownerID string) (int, error)

	// Update applies the supplied partial update to the deck and
	// refreshes its updated_at timestamp. Returns the updated deck, or
	// ErrDeckNotFound if the id+owner scoping fails.
	Update(ctx context.Context, deckID int64, ownerID string, update DeckUpdate) (*domain.Deck, error)

	// Delete removes the deck and, through the schema's ON DELETE
	// CASCADE constraint, every card that belongs to it. Returns
	// ErrDeckNotFound if the id+owner scoping fails.
	Delete(ctx context.Context, deckID int64, ownerID string) error

	// WithTx returns a DeckStore bound to the given transaction.
	WithTx(tx DBTX) DeckStore

	// DB returns the underlying database handle, for callers that need
	// to open a transaction with RunInTransaction and rebind the store
	// through WithTx.
	DB() *sql.DB
}
