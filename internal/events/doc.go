// Package events provides view invalidation signaling for mutations.
//
// After a successful write, services emit an InvalidationEvent naming the
// view path whose cached rendering is now stale. Handlers (a CDN purger,
// an edge cache, a websocket notifier) subscribe without the services
// knowing who listens, keeping the write path decoupled from delivery.
//
// The primary components are:
// - InvalidationEvent: Names a stale view path after a mutation
// - EventHandler: Interface for components that react to invalidations
// - EventEmitter: Interface for components that emit invalidations
package events
