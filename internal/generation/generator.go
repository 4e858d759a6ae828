package generation

import "context"

// BatchSize is the number of flashcards requested per generation call.
const BatchSize = 20

// CardProposal is a single front/back pair proposed by the language
// model. Proposals are not yet persisted and carry no identity.
type CardProposal struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Generator defines the interface for generating flashcard proposals
// from a deck's name and description. This interface is the boundary
// between the application core and external AI/LLM services.
type Generator interface {
	// GenerateCards proposes BatchSize flashcards for a deck with the
	// given name and description, ordered from foundational to
	// advanced. Every returned proposal has non-empty front and back;
	// a response that violates the schema is rejected as a whole.
	//
	// Failures are classified by sentinel error: ErrServiceUnavailable
	// for provider quota/capacity exhaustion, ErrRateLimited for rate
	// limiting, and ErrGenerationFailed for everything else.
	GenerateCards(ctx context.Context, deckName, deckDescription string) ([]CardProposal, error)
}
