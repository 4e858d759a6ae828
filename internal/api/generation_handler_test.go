package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGenerationService returns a canned result or error.
type stubGenerationService struct {
	result *service.GenerationResult
	err    error
}

func (s *stubGenerationService) GenerateCards(ctx context.Context, identity auth.Identity, deckID int64) (*service.GenerationResult, error) {
	return s.result, s.err
}

func generationRouter(svc service.GenerationService) http.Handler {
	h := NewGenerationHandler(svc, testLogger())
	r := chi.NewRouter()
	r.Post("/decks/{deckID}/generate", h.GenerateCards)
	return r
}

func TestGenerateCardsHandler(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	router := generationRouter(&stubGenerationService{result: &service.GenerationResult{
		CardsCreated: 2,
		Cards: []*domain.Card{
			{ID: 1, DeckID: 7, Front: "Dog", Back: "Perro", CreatedAt: now, UpdatedAt: now},
			{ID: 2, DeckID: 7, Front: "Cat", Back: "Gato", CreatedAt: now, UpdatedAt: now},
		},
	}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks/7/generate", nil))

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp GenerationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.CardsCreated)
	require.Len(t, resp.Cards, 2)
	assert.Equal(t, "Perro", resp.Cards[0].Back)
}

func TestGenerateCardsHandlerFailureMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"feature gated", service.ErrFeatureGated, http.StatusForbidden},
		{"missing title", service.ErrMissingTitle, http.StatusUnprocessableEntity},
		{"missing description", service.ErrMissingDescription, http.StatusUnprocessableEntity},
		{"rate limited", generation.ErrRateLimited, http.StatusTooManyRequests},
		{"service unavailable", generation.ErrServiceUnavailable, http.StatusServiceUnavailable},
		{"generation failed", generation.ErrGenerationFailed, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := generationRouter(&stubGenerationService{err: tt.err})
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/decks/7/generate", nil))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
