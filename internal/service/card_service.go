package service

import (
	"context"
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

// CardUpdateInput carries a partial card update from the caller. A nil
// pointer leaves the field unchanged.
type CardUpdateInput struct {
	Front *string
	Back  *string
}

// CardService provides card-related operations. Every operation proves
// ownership of the parent deck before touching cards, so a caller who
// does not own the deck sees the same not-found behavior as for a deck
// that does not exist.
type CardService interface {
	// ListCards returns the deck's cards, most recently updated first.
	ListCards(ctx context.Context, identity auth.Identity, deckID int64) ([]*domain.Card, error)

	// GetCard returns a single card scoped to a deck the caller owns.
	GetCard(ctx context.Context, identity auth.Identity, deckID, cardID int64) (*domain.Card, error)

	// CreateCard adds a card to a deck the caller owns.
	CreateCard(ctx context.Context, identity auth.Identity, deckID int64, front, back string) (*domain.Card, error)

	// UpdateCard applies a partial update to a card in a deck the caller owns.
	UpdateCard(ctx context.Context, identity auth.Identity, deckID, cardID int64, update CardUpdateInput) (*domain.Card, error)

	// DeleteCard removes a card from a deck the caller owns.
	DeleteCard(ctx context.Context, identity auth.Identity, deckID, cardID int64) error
}

// cardServiceImpl implements the CardService interface
type cardServiceImpl struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ CardService = (*cardServiceImpl)(nil)

// NewCardService creates a new CardService.
// It returns an error if any of the required dependencies are nil.
func NewCardService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (CardService, error) {
	if deckStore == nil {
		return nil, errors.New("deckStore cannot be nil")
	}
	if cardStore == nil {
		return nil, errors.New("cardStore cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &cardServiceImpl{
		deckStore: deckStore,
		cardStore: cardStore,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "card_service")),
	}, nil
}

// scopeDeck proves the caller owns the deck. A failed proof surfaces as
// the store's not-found error, indistinguishable from a missing deck.
func (s *cardServiceImpl) scopeDeck(ctx context.Context, identity auth.Identity, deckID int64) error {
	if identity.UserID == "" {
		return domain.ErrUnauthorized
	}

	_, err := s.deckStore.GetForOwner(ctx, deckID, identity.UserID)
	return err
}

// ListCards implements CardService.ListCards
func (s *cardServiceImpl) ListCards(
	ctx context.Context,
	identity auth.Identity,
	deckID int64,
) ([]*domain.Card, error) {
	if err := s.scopeDeck(ctx, identity, deckID); err != nil {
		return nil, err
	}

	return s.cardStore.ListByDeck(ctx, deckID)
}

// GetCard implements CardService.GetCard
func (s *cardServiceImpl) GetCard(
	ctx context.Context,
	identity auth.Identity,
	deckID, cardID int64,
) (*domain.Card, error) {
	if err := s.scopeDeck(ctx, identity, deckID); err != nil {
		return nil, err
	}

	return s.cardStore.GetForDeck(ctx, cardID, deckID)
}

// CreateCard implements CardService.CreateCard
func (s *cardServiceImpl) CreateCard(
	ctx context.Context,
	identity auth.Identity,
	deckID int64,
	front, back string,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.scopeDeck(ctx, identity, deckID); err != nil {
		return nil, err
	}

	card, err := domain.NewCard(deckID, front, back)
	if err != nil {
		return nil, cardValidationError(err)
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		// The ownership proof above passed, so a foreign key failure
		// means the deck vanished in between; report it as not found.
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, store.ErrDeckNotFound
		}
		return nil, err
	}

	log.Info("card created",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", deckID))

	s.invalidate(ctx, events.DeckPath(deckID))
	return card, nil
}

// UpdateCard implements CardService.UpdateCard
func (s *cardServiceImpl) UpdateCard(
	ctx context.Context,
	identity auth.Identity,
	deckID, cardID int64,
	update CardUpdateInput,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.scopeDeck(ctx, identity, deckID); err != nil {
		return nil, err
	}

	if update.Front == nil && update.Back == nil {
		return nil, NewValidationError("fields", "at least one field must be provided", nil)
	}

	if update.Front != nil {
		trimmed := strings.TrimSpace(*update.Front)
		if trimmed == "" {
			return nil, NewValidationError("front", "cannot be empty", domain.ErrCardFrontEmpty)
		}
		if utf8.RuneCountInString(trimmed) > domain.MaxCardSideLength {
			return nil, NewValidationError("front", "too long", domain.ErrCardFrontTooLong)
		}
		update.Front = &trimmed
	}

	if update.Back != nil {
		trimmed := strings.TrimSpace(*update.Back)
		if trimmed == "" {
			return nil, NewValidationError("back", "cannot be empty", domain.ErrCardBackEmpty)
		}
		if utf8.RuneCountInString(trimmed) > domain.MaxCardSideLength {
			return nil, NewValidationError("back", "too long", domain.ErrCardBackTooLong)
		}
		update.Back = &trimmed
	}

	card, err := s.cardStore.Update(ctx, cardID, deckID, store.CardUpdate{
		Front: update.Front,
		Back:  update.Back,
	})
	if err != nil {
		return nil, err
	}

	log.Info("card updated",
		slog.Int64("card_id", cardID),
		slog.Int64("deck_id", deckID))

	s.invalidate(ctx, events.DeckPath(deckID))
	return card, nil
}

// DeleteCard implements CardService.DeleteCard
func (s *cardServiceImpl) DeleteCard(
	ctx context.Context,
	identity auth.Identity,
	deckID, cardID int64,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.scopeDeck(ctx, identity, deckID); err != nil {
		return err
	}

	if err := s.cardStore.Delete(ctx, cardID, deckID); err != nil {
		return err
	}

	log.Info("card deleted",
		slog.Int64("card_id", cardID),
		slog.Int64("deck_id", deckID))

	s.invalidate(ctx, events.DeckPath(deckID))
	return nil
}

func (s *cardServiceImpl) invalidate(ctx context.Context, path string) {
	if err := s.emitter.EmitEvent(ctx, events.NewInvalidationEvent(path)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("view invalidation failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}

// cardValidationError maps a domain validation sentinel onto a
// field-level ValidationError for the API layer.
func cardValidationError(err error) error {
	switch {
	case errors.Is(err, domain.ErrCardFrontEmpty):
		return NewValidationError("front", "cannot be empty", err)
	case errors.Is(err, domain.ErrCardFrontTooLong):
		return NewValidationError("front", "too long", err)
	case errors.Is(err, domain.ErrCardBackEmpty):
		return NewValidationError("back", "cannot be empty", err)
	case errors.Is(err, domain.ErrCardBackTooLong):
		return NewValidationError("back", "too long", err)
	case errors.Is(err, domain.ErrCardDeckIDEmpty):
		return NewValidationError("deck_id", "must be positive", err)
	default:
		return err
	}
}
