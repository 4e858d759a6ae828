// Package gemini implements the generation.Generator interface using
// Google's Gemini API.
package gemini

// promptData represents the data passed to the prompt template
type promptData struct {
	BatchSize       int
	DeckName        string
	DeckDescription string
}

// responseSchema represents the expected structure of the Gemini API response
type responseSchema struct {
	// Cards is the array of flashcards generated for the deck
	Cards []cardSchema `json:"cards"`
}

// cardSchema represents a single flashcard in the API response
type cardSchema struct {
	// Front is the question or prompt side of the flashcard
	Front string `json:"front"`

	// Back is the answer side of the flashcard
	Back string `json:"back"`
}

// defaultPromptTemplate asks the model for a fixed-size batch guided by
// the deck's name and description, foundational material first.
const defaultPromptTemplate = `Generate {{.BatchSize}} flashcards for a deck titled "{{.DeckName}}" with the description: "{{.DeckDescription}}".

Based on the deck's name and description, determine the most appropriate flashcard format and style. Use your understanding of the subject matter to create effective learning materials.

Guidelines:
- Adapt the format to match the subject matter (e.g., simple translations for vocabulary, questions for concepts, terms for definitions)
- Front: Should be concise and clear (word, phrase, question, or term as appropriate)
- Back: Should provide the essential information needed (translation, answer, definition, or explanation as appropriate)
- Start with fundamental concepts and progressively increase difficulty
- Ensure variety and comprehensive coverage of the topic
- Keep content focused and avoid unnecessary verbosity

Generate the flashcards now, using the format that best serves the learning goals indicated by the deck's description:`
