package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Deck field limits enforced at validation time. Limits are measured in
// characters, matching the VARCHAR column widths, not in bytes.
const (
	MaxDeckNameLength        = 255
	MaxDeckDescriptionLength = 1000
)

// Deck-specific validation errors
var (
	// ErrDeckOwnerEmpty is returned when a deck's owner ID is empty.
	ErrDeckOwnerEmpty = errors.New("deck owner ID cannot be empty")

	// ErrDeckNameEmpty is returned when a deck's name is empty after trimming.
	ErrDeckNameEmpty = errors.New("deck name cannot be empty")

	// ErrDeckNameTooLong is returned when a deck's name exceeds the length limit.
	ErrDeckNameTooLong = errors.New("deck name cannot exceed 255 characters")

	// ErrDeckDescriptionTooLong is returned when a deck's description exceeds the length limit.
	ErrDeckDescriptionTooLong = errors.New("deck description cannot exceed 1000 characters")
)

// Deck represents a named, owned collection of flashcards.
// The ID is assigned by the store on insert and is immutable afterwards,
// as is the OwnerID.
type Deck struct {
	ID          int64     `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewDeck creates a new Deck owned by ownerID with the given name and
// optional description. Name and description are trimmed of surrounding
// whitespace; a description that trims to empty is treated as absent.
// The ID is left zero for the store to assign.
// Returns an error if validation fails.
func NewDeck(ownerID, name string, description *string) (*Deck, error) {
	now := time.Now().UTC()
	deck := &Deck{
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: trimDescription(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := deck.Validate(); err != nil {
		return nil, err
	}

	return deck, nil
}

// trimDescription normalizes an optional description: surrounding
// whitespace is stripped, and a value that trims to empty becomes nil.
func trimDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Validate checks if the Deck has valid data.
// Returns an error if any field fails validation.
func (d *Deck) Validate() error {
	if d.OwnerID == "" {
		return ErrDeckOwnerEmpty
	}

	if d.Name == "" {
		return ErrDeckNameEmpty
	}

	if utf8.RuneCountInString(d.Name) > MaxDeckNameLength {
		return ErrDeckNameTooLong
	}

	if d.Description != nil && utf8.RuneCountInString(*d.Description) > MaxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}

	return nil
}

// Rename updates the deck's name and refreshes the UpdatedAt timestamp.
// Returns an error if the new name is invalid.
func (d *Deck) Rename(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return ErrDeckNameEmpty
	}
	if utf8.RuneCountInString(trimmed) > MaxDeckNameLength {
		return ErrDeckNameTooLong
	}

	d.Name = trimmed
	d.UpdatedAt = time.Now().UTC()
	return nil
}

// SetDescription replaces the deck's description and refreshes the
// UpdatedAt timestamp. Passing nil or a blank string clears it.
// Returns an error if the new description is too long.
func (d *Deck) SetDescription(description *string) error {
	trimmed := trimDescription(description)
	if trimmed != nil && utf8.RuneCountInString(*trimmed) > MaxDeckDescriptionLength {
		return ErrDeckDescriptionTooLong
	}

	d.Description = trimmed
	d.UpdatedAt = time.Now().UTC()
	return nil
}
