package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/events"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// fakeDeckStore is an in-memory store.DeckStore for service tests. Its
// DB handle is a permissive sqlmock connection so code paths that open
// a transaction around the fake still work.
type fakeDeckStore struct {
	mu     sync.Mutex
	decks  map[int64]*domain.Deck
	nextID int64
	db     *sql.DB

	withTxCalls int

	countErr  error
	createErr error
}

func newFakeDeckStore() *fakeDeckStore {
	return &fakeDeckStore{
		decks: make(map[int64]*domain.Deck),
		db:    newFakeTxDB(),
	}
}

// newFakeTxDB builds a sqlmock handle that tolerates transactions in
// any order and outcome. The fake stores never issue SQL, so only
// begin/commit/rollback need expectations.
func newFakeTxDB() *sql.DB {
	db, mock, err := sqlmock.New()
	if err != nil {
		panic(err)
	}
	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 64; i++ {
		mock.ExpectBegin()
		mock.ExpectCommit()
		mock.ExpectRollback()
	}
	return db
}

func (f *fakeDeckStore) Create(ctx context.Context, deck *domain.Deck) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return f.createErr
	}

	f.nextID++
	deck.ID = f.nextID
	stored := *deck
	f.decks[deck.ID] = &stored
	return nil
}

func (f *fakeDeckStore) GetForOwner(ctx context.Context, deckID int64, ownerID string) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deck, ok := f.decks[deckID]
	if !ok || deck.OwnerID != ownerID {
		return nil, store.ErrDeckNotFound
	}
	out := *deck
	return &out, nil
}

func (f *fakeDeckStore) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Deck, 0)
	for _, deck := range f.decks {
		if deck.OwnerID == ownerID {
			d := *deck
			out = append(out, &d)
		}
	}
	return out, nil
}

func (f *fakeDeckStore) ListWithCardCounts(ctx context.Context, ownerID string) ([]*store.DeckWithCardCount, error) {
	decks, _ := f.ListByOwner(ctx, ownerID)
	out := make([]*store.DeckWithCardCount, 0, len(decks))
	for _, deck := range decks {
		out = append(out, &store.DeckWithCardCount{Deck: *deck})
	}
	return out, nil
}

func (f *fakeDeckStore) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}

	decks, _ := f.ListByOwner(ctx, ownerID)
	return len(decks), nil
}

func (f *fakeDeckStore) Update(ctx context.Context, deckID int64, ownerID string, update store.DeckUpdate) (*domain.Deck, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	deck, ok := f.decks[deckID]
	if !ok || deck.OwnerID != ownerID {
		return nil, store.ErrDeckNotFound
	}

	if update.Name != nil {
		deck.Name = *update.Name
	}
	if update.Description != nil {
		if *update.Description == "" {
			deck.Description = nil
		} else {
			desc := *update.Description
			deck.Description = &desc
		}
	}
	deck.UpdatedAt = time.Now().UTC()

	out := *deck
	return &out, nil
}

func (f *fakeDeckStore) Delete(ctx context.Context, deckID int64, ownerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	deck, ok := f.decks[deckID]
	if !ok || deck.OwnerID != ownerID {
		return store.ErrDeckNotFound
	}
	delete(f.decks, deckID)
	return nil
}

func (f *fakeDeckStore) WithTx(tx store.DBTX) store.DeckStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.withTxCalls++
	return f
}

func (f *fakeDeckStore) DB() *sql.DB { return f.db }

// fakeCardStore is an in-memory store.CardStore for service tests.
type fakeCardStore struct {
	mu     sync.Mutex
	cards  map[int64]*domain.Card
	nextID int64

	// failEveryNth makes every nth Create fail, for partial-batch tests.
	failEveryNth int
	createCalls  int
	createErr    error
}

func newFakeCardStore() *fakeCardStore {
	return &fakeCardStore{cards: make(map[int64]*domain.Card)}
}

func (f *fakeCardStore) Create(ctx context.Context, card *domain.Card) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.createCalls++
	if f.createErr != nil {
		return f.createErr
	}
	if f.failEveryNth > 0 && f.createCalls%f.failEveryNth == 0 {
		return store.NewStoreError("card", "create", "injected failure", store.ErrTransactionFailed)
	}

	f.nextID++
	card.ID = f.nextID
	stored := *card
	f.cards[card.ID] = &stored
	return nil
}

func (f *fakeCardStore) GetForDeck(ctx context.Context, cardID, deckID int64) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok || card.DeckID != deckID {
		return nil, store.ErrCardNotFound
	}
	out := *card
	return &out, nil
}

func (f *fakeCardStore) ListByDeck(ctx context.Context, deckID int64) ([]*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]*domain.Card, 0)
	for _, card := range f.cards {
		if card.DeckID == deckID {
			c := *card
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeCardStore) Update(ctx context.Context, cardID, deckID int64, update store.CardUpdate) (*domain.Card, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok || card.DeckID != deckID {
		return nil, store.ErrCardNotFound
	}

	if update.Front != nil {
		card.Front = *update.Front
	}
	if update.Back != nil {
		card.Back = *update.Back
	}
	card.UpdatedAt = time.Now().UTC()

	out := *card
	return &out, nil
}

func (f *fakeCardStore) Delete(ctx context.Context, cardID, deckID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	card, ok := f.cards[cardID]
	if !ok || card.DeckID != deckID {
		return store.ErrCardNotFound
	}
	delete(f.cards, cardID)
	return nil
}

func (f *fakeCardStore) WithTx(tx store.DBTX) store.CardStore { return f }

// recordingEmitter captures invalidation paths emitted by services.
type recordingEmitter struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingEmitter) EmitEvent(ctx context.Context, event *events.InvalidationEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, event.Path)
	return nil
}

func (r *recordingEmitter) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.paths))
	copy(out, r.paths)
	return out
}

// fakeGenerator returns canned proposals and records whether it was called.
type fakeGenerator struct {
	proposals []generation.CardProposal
	err       error
	calls     int
}

func (f *fakeGenerator) GenerateCards(ctx context.Context, deckName, deckDescription string) ([]generation.CardProposal, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.proposals, nil
}
