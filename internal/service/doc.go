// Package service contains the application-specific use cases and business
// logic. It orchestrates interactions between domain objects and stores
// (defined in internal/store) to fulfill application features.
//
// Every mutation follows the same chain: resolve the caller's identity,
// validate input, prove ownership scoping, delegate to the store, then
// signal view invalidation. Sentinel errors and ValidationError carry the
// failure kind to the API layer, which maps them to HTTP status codes.
//
// The service layer depends on domain entities and store interfaces, but
// never on specific infrastructure implementations.
package service
