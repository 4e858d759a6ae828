package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/platform/logger"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// PostgresDeckStore implements the store.DeckStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresDeckStore creates a new PostgreSQL implementation of the DeckStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db store.DBTX, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Ensure PostgresDeckStore implements store.DeckStore interface
var _ store.DeckStore = (*PostgresDeckStore)(nil)

// WithTx implements store.DeckStore.WithTx
func (s *PostgresDeckStore) WithTx(tx store.DBTX) store.DeckStore {
	return &PostgresDeckStore{
		db:     tx,
		logger: s.logger,
	}
}

// DB implements store.DeckStore.DB
// Returns nil when the store is already bound to a transaction.
func (s *PostgresDeckStore) DB() *sql.DB {
	if db, ok := s.db.(*sql.DB); ok {
		return db
	}
	return nil
}

// Create implements store.DeckStore.Create
// It saves a new deck to the database and assigns its generated ID,
// handling domain validation first.
func (s *PostgresDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := deck.Validate(); err != nil {
		log.Warn("deck validation failed during create",
			slog.String("error", err.Error()),
			slog.String("owner_id", deck.OwnerID))
		return err
	}

	query := `
		INSERT INTO decks (owner_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := s.db.QueryRowContext(
		ctx,
		query,
		deck.OwnerID,
		deck.Name,
		deck.Description,
		deck.CreatedAt,
		deck.UpdatedAt,
	).Scan(&deck.ID)

	if err != nil {
		log.Error("failed to create deck",
			slog.String("error", err.Error()),
			slog.String("owner_id", deck.OwnerID))
		return err
	}

	log.Info("deck created successfully",
		slog.Int64("deck_id", deck.ID),
		slog.String("owner_id", deck.OwnerID))
	return nil
}

// GetForOwner implements store.DeckStore.GetForOwner
// It retrieves a deck by ID scoped to its owner. A deck owned by a
// different identity is reported as store.ErrDeckNotFound.
func (s *PostgresDeckStore) GetForOwner(
	ctx context.Context,
	deckID int64,
	ownerID string,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM decks
		WHERE id = $1 AND owner_id = $2
	`

	var deck domain.Deck
	err := s.db.QueryRowContext(ctx, query, deckID, ownerID).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.Description,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found", slog.Int64("deck_id", deckID))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to get deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}

	return &deck, nil
}

// ListByOwner implements store.DeckStore.ListByOwner
// It retrieves all decks owned by ownerID, with no ordering contract.
func (s *PostgresDeckStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, name, description, created_at, updated_at
		FROM decks
		WHERE owner_id = $1
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query decks by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var decks []*domain.Deck
	for rows.Next() {
		var deck domain.Deck
		err := rows.Scan(
			&deck.ID,
			&deck.OwnerID,
			&deck.Name,
			&deck.Description,
			&deck.CreatedAt,
			&deck.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan deck row",
				slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, &deck)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no decks found
	if decks == nil {
		decks = []*domain.Deck{}
	}

	return decks, nil
}

// ListWithCardCounts implements store.DeckStore.ListWithCardCounts
// It retrieves all decks owned by ownerID joined with the number of
// cards each deck holds.
func (s *PostgresDeckStore) ListWithCardCounts(
	ctx context.Context,
	ownerID string,
) ([]*store.DeckWithCardCount, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT d.id, d.owner_id, d.name, d.description, d.created_at, d.updated_at,
		       COUNT(c.id) AS card_count
		FROM decks d
		LEFT JOIN cards c ON c.deck_id = d.id
		WHERE d.owner_id = $1
		GROUP BY d.id
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query decks with card counts",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var decks []*store.DeckWithCardCount
	for rows.Next() {
		var deck store.DeckWithCardCount
		err := rows.Scan(
			&deck.ID,
			&deck.OwnerID,
			&deck.Name,
			&deck.Description,
			&deck.CreatedAt,
			&deck.UpdatedAt,
			&deck.CardCount,
		)
		if err != nil {
			log.Error("failed to scan deck row",
				slog.String("error", err.Error()))
			return nil, err
		}
		decks = append(decks, &deck)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if decks == nil {
		decks = []*store.DeckWithCardCount{}
	}

	return decks, nil
}

// CountByOwner implements store.DeckStore.CountByOwner
func (s *PostgresDeckStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var count int
	err := s.db.QueryRowContext(
		ctx,
		`SELECT COUNT(*) FROM decks WHERE owner_id = $1`,
		ownerID,
	).Scan(&count)

	if err != nil {
		log.Error("failed to count decks by owner",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID))
		return 0, err
	}

	return count, nil
}

// Update implements store.DeckStore.Update
// It applies only the supplied fields and refreshes updated_at.
// Returns store.ErrDeckNotFound if the id+owner scoping fails.
func (s *PostgresDeckStore) Update(
	ctx context.Context,
	deckID int64,
	ownerID string,
	update store.DeckUpdate,
) (*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE decks
		SET name = COALESCE($1, name),
		    description = CASE WHEN $2 THEN $3 ELSE description END,
		    updated_at = $4
		WHERE id = $5 AND owner_id = $6
		RETURNING id, owner_id, name, description, created_at, updated_at
	`

	var deck domain.Deck
	err := s.db.QueryRowContext(
		ctx,
		query,
		update.Name,
		update.Description != nil,
		normalizeDescription(update.Description),
		time.Now().UTC(),
		deckID,
		ownerID,
	).Scan(
		&deck.ID,
		&deck.OwnerID,
		&deck.Name,
		&deck.Description,
		&deck.CreatedAt,
		&deck.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("deck not found for update", slog.Int64("deck_id", deckID))
			return nil, store.ErrDeckNotFound
		}
		log.Error("failed to update deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return nil, err
	}

	log.Info("deck updated successfully",
		slog.Int64("deck_id", deck.ID),
		slog.String("owner_id", deck.OwnerID))
	return &deck, nil
}

// normalizeDescription maps a provided-but-blank description to NULL so
// an update can clear the column.
func normalizeDescription(description *string) *string {
	if description == nil || *description == "" {
		return nil
	}
	return description
}

// Delete implements store.DeckStore.Delete
// It removes the deck; the cards FK constraint cascades the deletion of
// every card in the deck at the database level.
// Returns store.ErrDeckNotFound if the id+owner scoping fails.
func (s *PostgresDeckStore) Delete(ctx context.Context, deckID int64, ownerID string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(
		ctx,
		`DELETE FROM decks WHERE id = $1 AND owner_id = $2`,
		deckID,
		ownerID,
	)
	if err != nil {
		log.Error("failed to delete deck",
			slog.String("error", err.Error()),
			slog.Int64("deck_id", deckID))
		return err
	}

	if err := CheckRowsAffected(result, store.ErrDeckNotFound); err != nil {
		log.Debug("deck not found for delete", slog.Int64("deck_id", deckID))
		return err
	}

	log.Info("deck deleted successfully",
		slog.Int64("deck_id", deckID),
		slog.String("owner_id", ownerID))
	return nil
}
