package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// DeckUpdateInput carries a partial deck update from the caller. A nil
// pointer leaves the field unchanged; a Description that trims to empty
// clears the stored value.
type DeckUpdateInput struct {
	Name        *string
	Description *string
}

// DeckService provides deck-related operations scoped to the calling
// identity.
type DeckService interface {
	// ListDecks returns every deck the caller owns.
	ListDecks(ctx context.Context, identity auth.Identity) ([]*domain.Deck, error)

	// ListDecksWithCardCounts returns every deck the caller owns together
	// with the number of cards in each, for the dashboard view.
	ListDecksWithCardCounts(ctx context.Context, identity auth.Identity) ([]*store.DeckWithCardCount, error)

	// GetDeck returns the deck iff the caller owns it.
	GetDeck(ctx context.Context, identity auth.Identity, deckID int64) (*domain.Deck, error)

	// CreateDeck creates a new deck for the caller, enforcing the
	// free-plan quota unless the caller holds the unlimited-decks
	// entitlement.
	CreateDeck(ctx context.Context, identity auth.Identity, name string, description *string) (*domain.Deck, error)

	// UpdateDeck applies a partial update to a deck the caller owns.
	UpdateDeck(ctx context.Context, identity auth.Identity, deckID int64, update DeckUpdateInput) (*domain.Deck, error)

	// DeleteDeck removes a deck the caller owns along with all its cards.
	DeleteDeck(ctx context.Context, identity auth.Identity, deckID int64) error
}

// deckServiceImpl implements the DeckService interface
type deckServiceImpl struct {
	deckStore store.DeckStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ DeckService = (*deckServiceImpl)(nil)

// NewDeckService creates a new DeckService.
// It returns an error if any of the required dependencies are nil.
func NewDeckService(
	deckStore store.DeckStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (DeckService, error) {
	if deckStore == nil {
		return nil, errors.New("deckStore cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &deckServiceImpl{
		deckStore: deckStore,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "deck_service")),
	}, nil
}

// ListDecks implements DeckService.ListDecks
func (s *deckServiceImpl) ListDecks(ctx context.Context, identity auth.Identity) ([]*domain.Deck, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	return s.deckStore.ListByOwner(ctx, identity.UserID)
}

// ListDecksWithCardCounts implements DeckService.ListDecksWithCardCounts
func (s *deckServiceImpl) ListDecksWithCardCounts(
	ctx context.Context,
	identity auth.Identity,
) ([]*store.DeckWithCardCount, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	return s.deckStore.ListWithCardCounts(ctx, identity.UserID)
}

// GetDeck implements DeckService.GetDeck
func (s *deckServiceImpl) GetDeck(
	ctx context.Context,
	identity auth.Identity,
	deckID int64,
) (*domain.Deck, error) {
	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	return s.deckStore.GetForOwner(ctx, deckID, identity.UserID)
}

// CreateDeck implements DeckService.CreateDeck.
// For free-plan callers the quota count and the insert run in a single
// transaction. Under the default isolation level two concurrent
// creations near the limit can still both pass the count; the cap is a
// product guardrail, not an integrity constraint.
func (s *deckServiceImpl) CreateDeck(
	ctx context.Context,
	identity auth.Identity,
	name string,
	description *string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	deck, err := domain.NewDeck(identity.UserID, name, description)
	if err != nil {
		return nil, deckValidationError(err)
	}

	if identity.Entitlements.UnlimitedDecks {
		if err := s.deckStore.Create(ctx, deck); err != nil {
			return nil, err
		}
	} else {
		err := store.RunInTransaction(ctx, s.deckStore.DB(), func(ctx context.Context, tx *sql.Tx) error {
			txStore := s.deckStore.WithTx(tx)

			count, err := txStore.CountByOwner(ctx, identity.UserID)
			if err != nil {
				return store.NewStoreError("deck", "count", "failed to count decks for quota check", err)
			}
			if count >= FreeDeckLimit {
				log.Debug("deck creation rejected by quota",
					slog.String("user_id", identity.UserID),
					slog.Int("deck_count", count))
				return ErrQuotaExceeded
			}

			return txStore.Create(ctx, deck)
		})
		if err != nil {
			return nil, err
		}
	}

	log.Info("deck created",
		slog.Int64("deck_id", deck.ID),
		slog.String("user_id", identity.UserID))

	s.invalidate(ctx, events.DashboardPath)
	return deck, nil
}

// UpdateDeck implements DeckService.UpdateDeck
func (s *deckServiceImpl) UpdateDeck(
	ctx context.Context,
	identity auth.Identity,
	deckID int64,
	update DeckUpdateInput,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	if update.Name == nil && update.Description == nil {
		return nil, NewValidationError("fields", "at least one field must be provided", nil)
	}

	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		if trimmed == "" {
			return nil, NewValidationError("name", "cannot be empty", domain.ErrDeckNameEmpty)
		}
		if utf8.RuneCountInString(trimmed) > domain.MaxDeckNameLength {
			return nil, NewValidationError("name", "too long", domain.ErrDeckNameTooLong)
		}
		update.Name = &trimmed
	}

	if update.Description != nil {
		trimmed := strings.TrimSpace(*update.Description)
		if utf8.RuneCountInString(trimmed) > domain.MaxDeckDescriptionLength {
			return nil, NewValidationError("description", "too long", domain.ErrDeckDescriptionTooLong)
		}
		update.Description = &trimmed
	}

	deck, err := s.deckStore.Update(ctx, deckID, identity.UserID, store.DeckUpdate{
		Name:        update.Name,
		Description: update.Description,
	})
	if err != nil {
		return nil, err
	}

	log.Info("deck updated",
		slog.Int64("deck_id", deckID),
		slog.String("user_id", identity.UserID))

	s.invalidate(ctx, events.DashboardPath)
	s.invalidate(ctx, events.DeckPath(deckID))
	return deck, nil
}

// DeleteDeck implements DeckService.DeleteDeck
func (s *deckServiceImpl) DeleteDeck(ctx context.Context, identity auth.Identity, deckID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if identity.UserID == "" {
		return domain.ErrUnauthorized
	}

	if err := s.deckStore.Delete(ctx, deckID, identity.UserID); err != nil {
		return err
	}

	log.Info("deck deleted",
		slog.Int64("deck_id", deckID),
		slog.String("user_id", identity.UserID))

	s.invalidate(ctx, events.DashboardPath)
	s.invalidate(ctx, events.DeckPath(deckID))
	return nil
}

// invalidate emits a view invalidation hint. Failures are logged and
// swallowed: invalidation is advisory and never fails a mutation.
func (s *deckServiceImpl) invalidate(ctx context.Context, path string) {
	if err := s.emitter.EmitEvent(ctx, events.NewInvalidationEvent(path)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("view invalidation failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// deckValidationError maps a domain validation sentinel onto a
// field-level ValidationError for the API layer.
func deckValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrDeckNameEmpty):
		return NewValidationError("name", "cannot be empty", err)
	case errors.Is(err, domain.ErrDeckNameTooLong):
		return NewValidationError("name", "too long", err)
	case errors.Is(err, domain.ErrDeckDescriptionTooLong):
		return NewValidationError("description", "too long", err)
	case errors.Is(err, domain.ErrDeckOwnerEmpty):
		return domain.ErrUnauthorized
	default:
		return err
	}
}
