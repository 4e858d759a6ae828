package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresCardStore_CreateAndGet(t *testing.T) {
	tx := newTestTx(t)
	deckStore := NewPostgresDeckStore(tx, nil)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	deck := mustNewDeck(t, "owner-1", "Geography", nil)
	require.NoError(t, deckStore.Create(ctx, deck))

	card, err := domain.NewCard(deck.ID, "Capital of France?", "Paris")
	require.NoError(t, err)
	require.NoError(t, cardStore.Create(ctx, card))
	assert.Positive(t, card.ID)

	got, err := cardStore.GetForDeck(ctx, card.ID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, "Capital of France?", got.Front)
	assert.Equal(t, "Paris", got.Back)
}

func TestPostgresCardStore_CreateOrphanRejected(t *testing.T) {
	tx := newTestTx(t)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	card, err := domain.NewCard(12345, "front", "back")
	require.NoError(t, err)

	err = cardStore.Create(ctx, card)
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestPostgresCardStore_GetForDeckScoping(t *testing.T) {
	tx := newTestTx(t)
	deckStore := NewPostgresDeckStore(tx, nil)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	deckA := mustNewDeck(t, "owner-1", "Deck A", nil)
	require.NoError(t, deckStore.Create(ctx, deckA))
	deckB := mustNewDeck(t, "owner-1", "Deck B", nil)
	require.NoError(t, deckStore.Create(ctx, deckB))

	card, err := domain.NewCard(deckA.ID, "front", "back")
	require.NoError(t, err)
	require.NoError(t, cardStore.Create(ctx, card))

	// Right card, wrong deck.
	_, err = cardStore.GetForDeck(ctx, card.ID, deckB.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_ListByDeckOrdering(t *testing.T) {
	tx := newTestTx(t)
	deckStore := NewPostgresDeckStore(tx, nil)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	deck := mustNewDeck(t, "owner-1", "Ordered", nil)
	require.NoError(t, deckStore.Create(ctx, deck))

	// Spread updated_at so the expected order is unambiguous.
	base := time.Now().UTC().Add(-time.Hour)
	fronts := []string{"oldest", "middle", "newest"}
	for i, front := range fronts {
		card, err := domain.NewCard(deck.ID, front, "back")
		require.NoError(t, err)
		card.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		card.UpdatedAt = card.CreatedAt
		require.NoError(t, cardStore.Create(ctx, card))
	}

	cards, err := cardStore.ListByDeck(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.Equal(t, "newest", cards[0].Front)
	assert.Equal(t, "middle", cards[1].Front)
	assert.Equal(t, "oldest", cards[2].Front)
}

func TestPostgresCardStore_Update(t *testing.T) {
	tx := newTestTx(t)
	deckStore := NewPostgresDeckStore(tx, nil)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	deck := mustNewDeck(t, "owner-1", "Editable", nil)
	require.NoError(t, deckStore.Create(ctx, deck))

	card, err := domain.NewCard(deck.ID, "front", "back")
	require.NoError(t, err)
	require.NoError(t, cardStore.Create(ctx, card))

	updated, err := cardStore.Update(ctx, card.ID, deck.ID, store.CardUpdate{
		Front: strPtr("revised front"),
	})
	require.NoError(t, err)
	assert.Equal(t, "revised front", updated.Front)
	assert.Equal(t, "back", updated.Back)
	assert.True(t, updated.UpdatedAt.After(card.UpdatedAt))

	_, err = cardStore.Update(ctx, card.ID, deck.ID+1, store.CardUpdate{
		Front: strPtr("wrong deck"),
	})
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestPostgresCardStore_Delete(t *testing.T) {
	tx := newTestTx(t)
	deckStore := NewPostgresDeckStore(tx, nil)
	cardStore := NewPostgresCardStore(tx, nil)
	ctx := context.Background()

	deck := mustNewDeck(t, "owner-1", "Deletable", nil)
	require.NoError(t, deckStore.Create(ctx, deck))

	card, err := domain.NewCard(deck.ID, "front", "back")
	require.NoError(t, err)
	require.NoError(t, cardStore.Create(ctx, card))

	require.NoError(t, cardStore.Delete(ctx, card.ID, deck.ID))
	assert.ErrorIs(t, cardStore.Delete(ctx, card.ID, deck.ID), store.ErrCardNotFound)
}
