package api

import (
	"net/http"
	"strconv"

	"github.com/flashdeck/flashdeck-api/internal/api/middleware"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/go-chi/chi/v5"
)

// getIdentity extracts the authenticated caller from the request
// context, writing a 401 response if the auth middleware did not
// resolve one.
func getIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := middleware.GetIdentity(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return auth.Identity{}, false
	}
	return identity, true
}

// getPathID extracts a positive integer ID from the URL path
// parameters, writing a 400 response on a missing or malformed value.
func getPathID(w http.ResponseWriter, r *http.Request, paramName string) (int64, bool) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		HandleAPIError(w, r, service.NewValidationError(paramName, "is required", domain.ErrInvalidID), "")
		return 0, false
	}

	id, err := strconv.ParseInt(pathParam, 10, 64)
	if err != nil || id <= 0 {
		HandleAPIError(w, r, service.NewValidationError(paramName, "must be a positive integer", domain.ErrInvalidID), "")
		return 0, false
	}

	return id, true
}
