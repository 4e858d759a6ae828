package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposals(n int) []generation.CardProposal {
	out := make([]generation.CardProposal, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, generation.CardProposal{
			Front: fmt.Sprintf("front %d", i),
			Back:  fmt.Sprintf("back %d", i),
		})
	}
	return out
}

func newGenerationServiceForTest(
	t *testing.T,
	gen *fakeGenerator,
) (GenerationService, *fakeDeckStore, *fakeCardStore, *recordingEmitter) {
	t.Helper()

	decks := newFakeDeckStore()
	cards := newFakeCardStore()
	emitter := &recordingEmitter{}
	svc, err := NewGenerationService(decks, cards, gen, emitter, testLogger())
	require.NoError(t, err)

	return svc, decks, cards, emitter
}

func seedDescribedDeck(t *testing.T, decks *fakeDeckStore, ownerID, description string) *domain.Deck {
	t.Helper()

	var desc *string
	if description != "" {
		desc = &description
	}
	deck, err := domain.NewDeck(ownerID, "Spanish", desc)
	require.NoError(t, err)
	require.NoError(t, decks.Create(context.Background(), deck))
	return deck
}

func TestGenerateCards(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(generation.BatchSize)}
	svc, decks, _, emitter := newGenerationServiceForTest(t, gen)
	ctx := context.Background()
	deck := seedDescribedDeck(t, decks, "user_pro", "basic words")

	result, err := svc.GenerateCards(ctx, proIdentity("user_pro"), deck.ID)
	require.NoError(t, err)

	assert.Equal(t, generation.BatchSize, result.CardsCreated)
	assert.Len(t, result.Cards, generation.BatchSize)
	for _, card := range result.Cards {
		assert.Equal(t, deck.ID, card.DeckID)
		assert.NotZero(t, card.ID)
	}

	assert.Equal(t, []string{events.DeckPath(deck.ID)}, emitter.Paths())
}

func TestGenerateCardsPreconditionOrder(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(5)}
	svc, decks, _, _ := newGenerationServiceForTest(t, gen)
	ctx := context.Background()
	deck := seedDescribedDeck(t, decks, "user_pro", "")

	// No identity fails first, before any other check.
	_, err := svc.GenerateCards(ctx, auth.Identity{}, deck.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Identity without the entitlement is gated next.
	_, err = svc.GenerateCards(ctx, freeIdentity("user_pro"), deck.ID)
	assert.ErrorIs(t, err, ErrFeatureGated)

	// Entitled caller on a foreign or missing deck sees not-found.
	_, err = svc.GenerateCards(ctx, proIdentity("someone_else"), deck.ID)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)

	// Owned deck without a description is rejected last.
	_, err = svc.GenerateCards(ctx, proIdentity("user_pro"), deck.ID)
	assert.ErrorIs(t, err, ErrMissingDescription)

	// None of the failed preconditions reached the generator.
	assert.Zero(t, gen.calls)
}

func TestGenerateCardsMissingTitle(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(5)}
	svc, decks, _, _ := newGenerationServiceForTest(t, gen)
	deck := seedDescribedDeck(t, decks, "user_pro", "basic words")

	// Blank out the title behind the service's back to model legacy rows.
	decks.decks[deck.ID].Name = ""

	_, err := svc.GenerateCards(context.Background(), proIdentity("user_pro"), deck.ID)
	assert.ErrorIs(t, err, ErrMissingTitle)
	assert.Zero(t, gen.calls)
}

func TestGenerateCardsMissingDescription(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(5)}
	svc, decks, _, _ := newGenerationServiceForTest(t, gen)
	deck := seedDescribedDeck(t, decks, "user_pro", "")

	_, err := svc.GenerateCards(context.Background(), proIdentity("user_pro"), deck.ID)
	assert.ErrorIs(t, err, ErrMissingDescription)
	assert.Zero(t, gen.calls)
}

func TestGenerateCardsGeneratorFailurePassthrough(t *testing.T) {
	t.Parallel()

	for _, sentinel := range []error{
		generation.ErrServiceUnavailable,
		generation.ErrRateLimited,
		generation.ErrGenerationFailed,
	} {
		gen := &fakeGenerator{err: fmt.Errorf("%w: upstream detail", sentinel)}
		svc, decks, cards, emitter := newGenerationServiceForTest(t, gen)
		deck := seedDescribedDeck(t, decks, "user_pro", "basic words")

		_, err := svc.GenerateCards(context.Background(), proIdentity("user_pro"), deck.ID)
		assert.ErrorIs(t, err, sentinel)

		// Nothing persisted, nothing invalidated.
		listed, listErr := cards.ListByDeck(context.Background(), deck.ID)
		require.NoError(t, listErr)
		assert.Empty(t, listed)
		assert.Empty(t, emitter.Paths())
	}
}

func TestGenerateCardsPartialPersistence(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(10)}
	svc, decks, cards, _ := newGenerationServiceForTest(t, gen)
	deck := seedDescribedDeck(t, decks, "user_pro", "basic words")

	// Every 5th insert fails; the rest of the batch still lands.
	cards.failEveryNth = 5

	result, err := svc.GenerateCards(context.Background(), proIdentity("user_pro"), deck.ID)
	require.NoError(t, err)

	assert.Equal(t, 8, result.CardsCreated)
	assert.Len(t, result.Cards, 8)

	persisted, err := cards.ListByDeck(context.Background(), deck.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 8)
}

func TestGenerateCardsTwiceAppendsBatches(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{proposals: proposals(generation.BatchSize)}
	svc, decks, cards, _ := newGenerationServiceForTest(t, gen)
	ctx := context.Background()
	deck := seedDescribedDeck(t, decks, "user_pro", "basic words")

	_, err := svc.GenerateCards(ctx, proIdentity("user_pro"), deck.ID)
	require.NoError(t, err)
	_, err = svc.GenerateCards(ctx, proIdentity("user_pro"), deck.ID)
	require.NoError(t, err)

	// Two runs append two independent batches; no deduplication.
	persisted, err := cards.ListByDeck(ctx, deck.ID)
	require.NoError(t, err)
	assert.Len(t, persisted, 2*generation.BatchSize)
	assert.Equal(t, 2, gen.calls)
}
