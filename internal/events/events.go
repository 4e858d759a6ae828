package events

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// View paths whose cached renderings depend on deck and card state.
const (
	// DashboardPath lists every deck the caller owns.
	DashboardPath = "/dashboard"
)

// DeckPath returns the view path for a single deck's detail page.
func DeckPath(deckID int64) string {
	return fmt.Sprintf("/decks/%d", deckID)
}

// InvalidationEvent records that a view path became stale after a
// successful mutation.
type InvalidationEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Path is the view path whose cached rendering is now stale
	Path string `json:"path"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewInvalidationEvent creates a new InvalidationEvent for the given path.
func NewInvalidationEvent(path string) *InvalidationEvent {
	return &InvalidationEvent{
		ID:        uuid.New(),
		Path:      path,
		CreatedAt: time.Now(),
	}
}

// EventHandler defines an interface for components that react to
// invalidation events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *InvalidationEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish invalidations without direct knowledge
// of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *InvalidationEvent) error
}
