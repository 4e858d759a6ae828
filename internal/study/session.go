// Package study implements the in-memory review session over a deck's
// cards. A session is a small state machine driven by discrete user
// actions; it never writes back to the store, and review results are
// derived on demand rather than persisted.
package study

import (
	"errors"
	"math/rand"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// Session errors
var (
	// ErrNoCards is returned when a session is requested for a deck
	// without cards; the caller renders an empty view instead
	ErrNoCards = errors.New("deck has no cards to study")

	// ErrNotFlipped is returned when an answer is submitted while the
	// current card is face down
	ErrNotFlipped = errors.New("card must be flipped before answering")

	// ErrSessionComplete is returned when an answer is submitted after
	// every card has been answered
	ErrSessionComplete = errors.New("study session is already complete")
)

// State identifies the session's current phase.
type State int

const (
	// StateBrowsing shows the front of the current card.
	StateBrowsing State = iota
	// StateFlipped shows the back of the current card.
	StateFlipped
	// StateComplete means every card has been answered.
	StateComplete
)

// String returns a human-readable state name for logs.
func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateFlipped:
		return "flipped"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Verdict is the reviewer's self-assessment for a single card.
type Verdict int

const (
	// VerdictCorrect marks the card as recalled successfully.
	VerdictCorrect Verdict = iota
	// VerdictWrong marks the card as missed.
	VerdictWrong
)

// Score summarizes the answers recorded so far. All fields are derived
// from the answer map each time; nothing here is cached.
type Score struct {
	Correct  int
	Wrong    int
	Total    int
	Accuracy int // rounded percentage, 0 when no answers recorded
}

// Session is a single review pass over a deck's cards. It is not safe
// for concurrent use; each session belongs to one reviewer and is
// driven by one action at a time.
type Session struct {
	original []domain.Card
	cards    []domain.Card
	index    int
	state    State
	answers  map[int64]Verdict
	rng      *rand.Rand
}

// NewSession starts a session over the given cards in the order
// supplied. Returns ErrNoCards for an empty deck so the caller can
// render the empty view instead of a broken session.
func NewSession(cards []domain.Card) (*Session, error) {
	return NewSessionWithRand(cards, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewSessionWithRand is NewSession with an injectable random source,
// used by Shuffle. Tests pass a seeded source for determinism.
func NewSessionWithRand(cards []domain.Card, rng *rand.Rand) (*Session, error) {
	if len(cards) == 0 {
		return nil, ErrNoCards
	}

	original := make([]domain.Card, len(cards))
	copy(original, cards)

	current := make([]domain.Card, len(cards))
	copy(current, cards)

	return &Session{
		original: original,
		cards:    current,
		index:    0,
		state:    StateBrowsing,
		answers:  make(map[int64]Verdict),
		rng:      rng,
	}, nil
}

// State returns the session's current phase.
func (s *Session) State() State {
	return s.state
}

// Index returns the position of the current card.
func (s *Session) Index() int {
	return s.index
}

// Current returns the card under review. The returned value is only
// meaningful while the session is not complete.
func (s *Session) Current() domain.Card {
	return s.cards[s.index]
}

// Cards returns the session's card sequence in its current order.
func (s *Session) Cards() []domain.Card {
	out := make([]domain.Card, len(s.cards))
	copy(out, s.cards)
	return out
}

// Flip toggles the current card between front and back. It does not
// advance the index and is ignored once the session is complete.
func (s *Session) Flip() {
	switch s.state {
	case StateBrowsing:
		s.state = StateFlipped
	case StateFlipped:
		s.state = StateBrowsing
	}
}

// Next moves to the following card. Only valid while browsing; at the
// last card it is a no-op because the final card must be answered, not
// skipped past.
func (s *Session) Next() {
	if s.state != StateBrowsing {
		return
	}
	if s.index < len(s.cards)-1 {
		s.index++
	}
}

// Previous moves to the preceding card. Only valid while browsing.
func (s *Session) Previous() {
	if s.state != StateBrowsing {
		return
	}
	if s.index > 0 {
		s.index--
	}
}

// Answer records the verdict for the current card and advances. The
// card must be face up; a repeat answer for the same card overwrites
// the earlier verdict. Answering the last card completes the session.
func (s *Session) Answer(verdict Verdict) error {
	switch s.state {
	case StateComplete:
		return ErrSessionComplete
	case StateBrowsing:
		return ErrNotFlipped
	}

	s.answers[s.cards[s.index].ID] = verdict

	if s.index == len(s.cards)-1 {
		s.state = StateComplete
		return nil
	}

	s.index++
	s.state = StateBrowsing
	return nil
}

// Shuffle draws a fresh uniformly random permutation of the original
// card list, resets to the first card, and clears all recorded
// answers. Valid from any state.
func (s *Session) Shuffle() {
	shuffled := make([]domain.Card, len(s.original))
	copy(shuffled, s.original)

	// Fisher-Yates, last index down to 1.
	for i := len(shuffled) - 1; i >= 1; i-- {
		j := s.rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}

	s.cards = shuffled
	s.reset()
}

// Restart resets to the first card of the current sequence, clearing
// answers without reshuffling. A shuffled order survives a restart.
func (s *Session) Restart() {
	s.reset()
}

func (s *Session) reset() {
	s.index = 0
	s.state = StateBrowsing
	s.answers = make(map[int64]Verdict)
}

// Score recomputes the running tally from the recorded answers.
// Accuracy is a rounded percentage, defined as 0 when nothing has been
// answered yet.
func (s *Session) Score() Score {
	var correct, wrong int
	for _, v := range s.answers {
		if v == VerdictCorrect {
			correct++
		} else {
			wrong++
		}
	}

	total := correct + wrong
	accuracy := 0
	if total > 0 {
		accuracy = (100*correct + total/2) / total
	}

	return Score{
		Correct:  correct,
		Wrong:    wrong,
		Total:    total,
		Accuracy: accuracy,
	}
}
