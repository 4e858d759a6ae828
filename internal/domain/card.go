package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Card field limits enforced at validation time, measured in characters
// to match the VARCHAR column width.
const MaxCardSideLength = 2000

// Card-specific validation errors
var (
	// ErrCardDeckIDEmpty is returned when a card's deck ID is missing.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card's front is empty after trimming.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardBackEmpty is returned when a card's back is empty after trimming.
	ErrCardBackEmpty = errors.New("card back cannot be empty")

	// ErrCardFrontTooLong is returned when a card's front exceeds the length limit.
	ErrCardFrontTooLong = errors.New("card front cannot exceed 2000 characters")

	// ErrCardBackTooLong is returned when a card's back exceeds the length limit.
	ErrCardBackTooLong = errors.New("card back cannot exceed 2000 characters")
)

// Card represents a single question/answer flashcard. A card always
// belongs to exactly one deck; ownership is established through the
// deck, never on the card itself. The ID is assigned by the store.
type Card struct {
	ID        int64     `json:"id"`
	DeckID    int64     `json:"deck_id"`
	Front     string    `json:"front"`
	Back      string    `json:"back"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck. Front and back are
// trimmed of surrounding whitespace. The ID is left zero for the store
// to assign. Returns an error if validation fails.
func NewCard(deckID int64, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		DeckID:    deckID,
		Front:     strings.TrimSpace(front),
		Back:      strings.TrimSpace(back),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.DeckID <= 0 {
		return ErrCardDeckIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if utf8.RuneCountInString(c.Front) > MaxCardSideLength {
		return ErrCardFrontTooLong
	}

	if c.Back == "" {
		return ErrCardBackEmpty
	}

	if utf8.RuneCountInString(c.Back) > MaxCardSideLength {
		return ErrCardBackTooLong
	}

	return nil
}

// SetFront updates the card's front text and refreshes the UpdatedAt
// timestamp. Returns an error if the new text is invalid.
func (c *Card) SetFront(front string) error {
	trimmed := strings.TrimSpace(front)
	if trimmed == "" {
		return ErrCardFrontEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxCardSideLength {
		return ErrCardFrontTooLong
	}

	c.Front = trimmed
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// SetBack updates the card's back text and refreshes the UpdatedAt
// timestamp. Returns an error if the new text is invalid.
func (c *Card) SetBack(back string) error {
	trimmed := strings.TrimSpace(back)
	if trimmed == "" {
		return ErrCardBackEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxCardSideLength {
		return ErrCardBackTooLong
	}

	c.Back = trimmed
	c.UpdatedAt = time.Now().UTC()
	return nil
}
