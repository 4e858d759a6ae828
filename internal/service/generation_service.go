package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// GenerationResult is the outcome envelope of a generation run.
// CardsCreated counts what was actually persisted, which may be fewer
// than the proposals the model returned.
type GenerationResult struct {
	CardsCreated int            `json:"cards_created"`
	Cards        []*domain.Card `json:"cards"`
}

// GenerationService runs the AI card generation pipeline for a deck.
type GenerationService interface {
	// GenerateCards proposes a batch of cards for the deck via the
	// configured generator and persists them best-effort. A repeat call
	// appends a fresh independent batch; there is no deduplication
	// against existing cards.
	GenerateCards(ctx context.Context, identity auth.Identity, deckID int64) (*GenerationResult, error)
}

// generationServiceImpl implements the GenerationService interface
type generationServiceImpl struct {
	deckStore store.DeckStore
	cardStore store.CardStore
	generator generation.Generator
	emitter   events.EventEmitter
	logger    *slog.Logger
}

var _ GenerationService = (*generationServiceImpl)(nil)

// NewGenerationService creates a new GenerationService.
// It returns an error if any of the required dependencies are nil.
func NewGenerationService(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	generator generation.Generator,
	emitter events.EventEmitter,
	logger *slog.Logger,
) (GenerationService, error) {
	if deckStore == nil {
		return nil, errors.New("deckStore cannot be nil")
	}
	if cardStore == nil {
		return nil, errors.New("cardStore cannot be nil")
	}
	if generator == nil {
		return nil, errors.New("generator cannot be nil")
	}
	if emitter == nil {
		return nil, errors.New("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &generationServiceImpl{
		deckStore: deckStore,
		cardStore: cardStore,
		generator: generator,
		emitter:   emitter,
		logger:    logger.With(slog.String("component", "generation_service")),
	}, nil
}

// GenerateCards implements GenerationService.GenerateCards.
// Preconditions are checked in a fixed order before any external call:
// identity, entitlement, deck ownership, deck title, deck description.
// After the model responds, each proposal is inserted individually; a
// failed insert is logged and skipped so one bad row never discards the
// rest of the batch.
func (s *generationServiceImpl) GenerateCards(
	ctx context.Context,
	identity auth.Identity,
	deckID int64,
) (*GenerationResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}

	if !identity.Entitlements.AIGeneration {
		return nil, ErrFeatureGated
	}

	deck, err := s.deckStore.GetForOwner(ctx, deckID, identity.UserID)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(deck.Name) == "" {
		return nil, ErrMissingTitle
	}

	if deck.Description == nil || strings.TrimSpace(*deck.Description) == "" {
		return nil, ErrMissingDescription
	}

	proposals, err := s.generator.GenerateCards(ctx, deck.Name, *deck.Description)
	if err != nil {
		log.Error("card generation failed",
			slog.Int64("deck_id", deckID),
			slog.String("error", err.Error()))
		return nil, err
	}

	result := &GenerationResult{Cards: make([]*domain.Card, 0, len(proposals))}
	for i, proposal := range proposals {
		card, err := domain.NewCard(deckID, proposal.Front, proposal.Back)
		if err != nil {
			log.Warn("skipping invalid generated card",
				slog.Int64("deck_id", deckID),
				slog.Int("proposal_index", i),
				slog.String("error", err.Error()))
			continue
		}

		if err := s.cardStore.Create(ctx, card); err != nil {
			log.Warn("failed to persist generated card",
				slog.Int64("deck_id", deckID),
				slog.Int("proposal_index", i),
				slog.String("error", err.Error()))
			continue
		}

		result.Cards = append(result.Cards, card)
	}
	result.CardsCreated = len(result.Cards)

	log.Info("card generation completed",
		slog.Int64("deck_id", deckID),
		slog.Int("proposed", len(proposals)),
		slog.Int("created", result.CardsCreated))

	s.invalidate(ctx, events.DeckPath(deckID))
	return result, nil
}

func (s *generationServiceImpl) invalidate(ctx context.Context, path string) {
	if err := s.emitter.EmitEvent(ctx, events.NewInvalidationEvent(path)); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("view invalidation failed",
			slog.String("path", path),
			slog.String("error", err.Error()))
	}
}
