package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"google.golang.org/genai"
)

// GeminiGenerator implements the generation.Generator interface using
// Google's Gemini API to propose flashcards from a deck's name and
// description.
type GeminiGenerator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
	model          string
}

// Ensure GeminiGenerator implements generation.Generator
var _ generation.Generator = (*GeminiGenerator)(nil)

// cardsResponseSchema constrains the model output to a JSON object with
// a "cards" array of {front, back} string pairs. Schema violations are
// rejected by the API before they reach parsing.
var cardsResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"cards": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"front": {Type: genai.TypeString},
					"back":  {Type: genai.TypeString},
				},
				Required: []string{"front", "back"},
			},
		},
	},
	Required: []string{"cards"},
}

// NewGeminiGenerator creates a new GeminiGenerator with the provided
// dependencies. The context is used for client initialization and can
// be used for cancellation.
func NewGeminiGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*GeminiGenerator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("flashcards").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &GeminiGenerator{
		logger:         logger.With(slog.String("component", "gemini_generator")),
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
		model:          cfg.ModelName,
	}, nil
}

// GenerateCards implements generation.Generator.GenerateCards.
// It builds the prompt, makes a single structured-generation call (no
// internal retry; retry policy belongs to the caller), and validates
// the response against the card schema.
func (g *GeminiGenerator) GenerateCards(
	ctx context.Context,
	deckName, deckDescription string,
) ([]generation.CardProposal, error) {
	prompt, err := g.buildPrompt(deckName, deckDescription)
	if err != nil {
		return nil, err
	}

	g.logger.DebugContext(ctx, "making Gemini API call",
		"model", g.model,
		"prompt_length", len(prompt))

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   cardsResponseSchema,
		},
	)
	if err != nil {
		classified := classifyAPIError(err)
		g.logger.ErrorContext(ctx, "Gemini API call failed",
			"error", err,
			"classified", classified)
		return nil, classified
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	proposals, err := parseProposals([]byte(text))
	if err != nil {
		g.logger.ErrorContext(ctx, "failed to parse Gemini response",
			"error", err,
			"response_length", len(text))
		return nil, err
	}

	g.logger.InfoContext(ctx, "Gemini API call successful",
		"card_count", len(proposals))
	return proposals, nil
}

// buildPrompt renders the prompt template with the deck's name and
// description. Both must be non-empty; the pipeline checks this before
// calling, so a violation here is a programming error surfaced as one.
func (g *GeminiGenerator) buildPrompt(deckName, deckDescription string) (string, error) {
	if deckName == "" {
		return "", errors.New("deck name cannot be empty")
	}
	if deckDescription == "" {
		return "", errors.New("deck description cannot be empty")
	}

	var promptBuffer bytes.Buffer
	err := g.promptTemplate.Execute(&promptBuffer, promptData{
		BatchSize:       generation.BatchSize,
		DeckName:        deckName,
		DeckDescription: deckDescription,
	})
	if err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}

	return promptBuffer.String(), nil
}

// parseProposals decodes and validates the model's JSON output.
// The whole batch is rejected if any card is missing a side; a
// partially valid response is treated as a schema violation, not
// trimmed down silently.
func parseProposals(raw []byte) ([]generation.CardProposal, error) {
	var parsed responseSchema
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v",
			generation.ErrInvalidResponse, err)
	}

	if len(parsed.Cards) == 0 {
		return nil, fmt.Errorf("%w: no cards in response", generation.ErrInvalidResponse)
	}

	proposals := make([]generation.CardProposal, 0, len(parsed.Cards))
	for i, card := range parsed.Cards {
		front := strings.TrimSpace(card.Front)
		back := strings.TrimSpace(card.Back)

		if front == "" {
			return nil, fmt.Errorf("%w: card %d missing front side", generation.ErrInvalidResponse, i)
		}
		if back == "" {
			return nil, fmt.Errorf("%w: card %d missing back side", generation.ErrInvalidResponse, i)
		}

		proposals = append(proposals, generation.CardProposal{
			Front: front,
			Back:  back,
		})
	}

	return proposals, nil
}

// classifyAPIError maps a transport/provider failure onto the
// generation package's sentinel errors. The provider encodes quota
// exhaustion and rate limiting as well-known substrings of the error
// body, so classification is substring matching.
func classifyAPIError(err error) error {
	msg := err.Error()

	switch {
	case strings.Contains(msg, "insufficient_quota"):
		return fmt.Errorf("%w: %v", generation.ErrServiceUnavailable, err)
	case strings.Contains(msg, "rate_limit_exceeded"):
		return fmt.Errorf("%w: %v", generation.ErrRateLimited, err)
	default:
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}
}
