package service

import (
	"context"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCardServiceForTest(t *testing.T) (CardService, *fakeDeckStore, *fakeCardStore, *recordingEmitter) {
	t.Helper()

	decks := newFakeDeckStore()
	cards := newFakeCardStore()
	emitter := &recordingEmitter{}
	svc, err := NewCardService(decks, cards, emitter, testLogger())
	require.NoError(t, err)

	return svc, decks, cards, emitter
}

func seedDeck(t *testing.T, decks *fakeDeckStore, ownerID string) *domain.Deck {
	t.Helper()

	deck, err := domain.NewDeck(ownerID, "Spanish", nil)
	require.NoError(t, err)
	require.NoError(t, decks.Create(context.Background(), deck))
	return deck
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	svc, decks, _, emitter := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")

	card, err := svc.CreateCard(ctx, freeIdentity("user_1"), deck.ID, " Dog ", " Perro ")
	require.NoError(t, err)

	assert.NotZero(t, card.ID)
	assert.Equal(t, deck.ID, card.DeckID)
	assert.Equal(t, "Dog", card.Front)
	assert.Equal(t, "Perro", card.Back)

	assert.Equal(t, []string{events.DeckPath(deck.ID)}, emitter.Paths())
}

func TestCreateCardUnauthorized(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	deck := seedDeck(t, decks, "user_1")

	_, err := svc.CreateCard(context.Background(), freeIdentity(""), deck.ID, "Dog", "Perro")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateCardForeignDeck(t *testing.T) {
	t.Parallel()

	svc, decks, _, emitter := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")

	// Another caller's card operations on this deck all report not-found.
	_, err := svc.CreateCard(ctx, freeIdentity("intruder"), deck.ID, "Dog", "Perro")
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
	assert.Empty(t, emitter.Paths())
}

func TestCreateCardValidation(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")

	_, err := svc.CreateCard(ctx, freeIdentity("user_1"), deck.ID, "  ", "Perro")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrCardFrontEmpty)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "front", valErr.Field)
}

func TestListCardsScoping(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")

	_, err := svc.CreateCard(ctx, freeIdentity("user_1"), deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	cards, err := svc.ListCards(ctx, freeIdentity("user_1"), deck.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 1)

	_, err = svc.ListCards(ctx, freeIdentity("intruder"), deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")
	caller := freeIdentity("user_1")

	card, err := svc.CreateCard(ctx, caller, deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	got, err := svc.GetCard(ctx, caller, deck.ID, card.ID)
	require.NoError(t, err)
	assert.Equal(t, card.ID, got.ID)
	assert.Equal(t, "Dog", got.Front)

	// Wrong deck reads as an absent card.
	other := seedDeck(t, decks, "user_1")
	_, err = svc.GetCard(ctx, caller, other.ID, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)

	// Foreign deck reads as an absent deck.
	_, err = svc.GetCard(ctx, freeIdentity("intruder"), deck.ID, card.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestUpdateCard(t *testing.T) {
	t.Parallel()

	svc, decks, _, emitter := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")
	caller := freeIdentity("user_1")

	card, err := svc.CreateCard(ctx, caller, deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	front := "  Cat  "
	updated, err := svc.UpdateCard(ctx, caller, deck.ID, card.ID, CardUpdateInput{Front: &front})
	require.NoError(t, err)
	assert.Equal(t, "Cat", updated.Front)
	assert.Equal(t, "Perro", updated.Back, "unspecified field unchanged")

	assert.Contains(t, emitter.Paths(), events.DeckPath(deck.ID))
}

func TestUpdateCardValidation(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")
	caller := freeIdentity("user_1")

	card, err := svc.CreateCard(ctx, caller, deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	_, err = svc.UpdateCard(ctx, caller, deck.ID, card.ID, CardUpdateInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	blank := " "
	_, err = svc.UpdateCard(ctx, caller, deck.ID, card.ID, CardUpdateInput{Back: &blank})
	assert.ErrorIs(t, err, domain.ErrCardBackEmpty)
}

func TestUpdateCardNotFound(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")
	front := "Cat"

	_, err := svc.UpdateCard(ctx, freeIdentity("user_1"), deck.ID, 999, CardUpdateInput{Front: &front})
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestDeleteCard(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")
	caller := freeIdentity("user_1")

	card, err := svc.CreateCard(ctx, caller, deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteCard(ctx, caller, deck.ID, card.ID))

	cards, err := svc.ListCards(ctx, caller, deck.ID)
	require.NoError(t, err)
	assert.Empty(t, cards)

	err = svc.DeleteCard(ctx, caller, deck.ID, card.ID)
	assert.ErrorIs(t, err, store.ErrCardNotFound)
}

func TestDeleteCardForeignDeck(t *testing.T) {
	t.Parallel()

	svc, decks, _, _ := newCardServiceForTest(t)
	ctx := context.Background()
	deck := seedDeck(t, decks, "user_1")

	card, err := svc.CreateCard(ctx, freeIdentity("user_1"), deck.ID, "Dog", "Perro")
	require.NoError(t, err)

	err = svc.DeleteCard(ctx, freeIdentity("intruder"), deck.ID, card.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}
