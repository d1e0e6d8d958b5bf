// Package audit defines the contract for recording lifecycle events.
// The Postgres implementation compresses large payloads; see
// infrastructure/storage/postgres.
package audit

import (
	"context"
)

// Event is one recorded lifecycle fact about an entity.
type Event struct {
	// Entity is the kind of object ("stock_import", "order").
	Entity string

	// EntityID identifies the object.
	EntityID string

	// Action names what happened ("created", "received", "cancelled").
	Action string

	// Actor is the acting user ID, empty for system actions.
	Actor string

	// Payload is a JSON-serializable snapshot of the relevant state.
	Payload any
}

// Recorder persists audit events. Recording is best-effort from the
// caller's perspective: failures are logged, never propagated.
type Recorder interface {
	Record(ctx context.Context, event Event) error
}

// NopRecorder discards events. Used in tests and as a safe default.
type NopRecorder struct{}

// Record implements Recorder.
func (NopRecorder) Record(ctx context.Context, event Event) error { return nil }

var _ Recorder = NopRecorder{}
