package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx store.DBTX) store.CardStore {
	return &PostgresCardStore{
		db:     tx,
		logger: s.logger,
	}
}

// Create implements store.CardStore.Create
// It saves a new card to the database and assigns its generated ID.
// Returns store.ErrInvalidEntity if the parent deck does not exist
// (foreign key violation).
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	query := `
		INSERT INTO cards (deck_id, front, back, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		card.DeckID,
		card.Front,
		card.Back,
		card.CreatedAt,
		card.UpdatedAt,
	).Scan(&card.ID)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during card creation",
				slog.String("error", err.Error()),
				slog.Int64("deck_id", card.DeckID))
			return fmt.Errorf("%w: deck with ID %d not found",
				store.ErrInvalidEntity, card.DeckID)
		}

		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", card.DeckID))
		return err
	}

	log.Info("card created successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return nil
}

// GetForDeck implements store.CardStore.GetForDeck
// It retrieves a card by ID scoped to its deck.
// Returns store.ErrCardNotFound if the id+deck scoping fails.
func (s *PostgresCardStore) GetForDeck(ctx context.Context, cardID, deckID int64) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, front, back, created_at, updated_at
		FROM cards
		WHERE id = $1 AND deck_id = $2
	`

	var card domain.Card
	err := s.db.QueryRowContext(ctx, query, cardID, deckID).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found",
				slog.Int64("card_id", cardID),
				slog.Int64("deck_id", deckID))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, err
	}

	return &card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
// It retrieves all cards of a deck ordered by updated_at descending.
// The most recently touched card sorts first; the UI depends on this.
func (s *PostgresCardStore) ListByDeck(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, front, back, created_at, updated_at
		FROM cards
		WHERE deck_id = $1
		ORDER BY updated_at DESC
	`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		log.Error("failed to query cards by deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var cards []*domain.Card
	for rows.Next() {
		var card domain.Card
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.Front,
			&card.Back,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row",
				slog.String("error", err.Error()))
			return nil, err
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no cards found
	if cards == nil {
		cards = []*domain.Card{}
	}

	return cards, nil
}

// Update implements store.CardStore.Update
// It applies only the supplied fields and refreshes updated_at.
// Returns store.ErrCardNotFound if the id+deck scoping fails.
func (s *PostgresCardStore) Update(
	ctx context.Context,
	cardID, deckID int64,
	update store.CardUpdate,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE cards
		SET front = COALESCE($1, front),
		    back = COALESCE($2, back),
		    updated_at = $3
		WHERE id = $4 AND deck_id = $5
		RETURNING id, deck_id, front, back, created_at, updated_at
	`

	var card domain.Card
	err := s.db.QueryRowContext(
		ctx,
		query,
		update.Front,
		update.Back,
		time.Now().UTC(),
		cardID,
		deckID,
	).Scan(
		&card.ID,
		&card.DeckID,
		&card.Front,
		&card.Back,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found for update",
				slog.Int64("card_id", cardID),
				slog.Int64("deck_id", deckID))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to update card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return nil, err
	}

	log.Info("card updated successfully",
		slog.Int64("card_id", card.ID),
		slog.Int64("deck_id", card.DeckID))
	return &card, nil
}

// Delete implements store.CardStore.Delete
// Returns store.ErrCardNotFound if the id+deck scoping fails.
func (s *PostgresCardStore) Delete(ctx context.Context, cardID, deckID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM cards WHERE id = $1 AND deck_id = $2`,
		cardID,
		deckID,
	)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.Int64("card_id", cardID))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrCardNotFound); err != nil {
		log.Debug("card not found for delete",
			slog.Int64("card_id", cardID),
			slog.Int64("deck_id", deckID))
		return err
	}

	log.Info("card deleted successfully",
		slog.Int64("card_id", cardID),
		slog.Int64("deck_id", deckID))
	return nil
}
