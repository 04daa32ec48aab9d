// Package queue decouples slow, failure-prone work (sending email) from
// the HTTP request path. Jobs are named, carry a JSON payload, and are
// persisted in a JetStream work queue until a worker acknowledges them.
package queue

import (
	"context"
	"errors"
)

// ErrUnknownJob is returned when a job key has no registered handler.
var ErrUnknownJob = errors.New("no handler registered for job key")

// Handler processes the payload of a single named job. Delivery is
// at-least-once, so implementations must tolerate duplicates.
type Handler interface {
	// Key identifies the job kind this handler consumes.
	Key() string
	// Process handles one delivery of the job payload.
	Process(ctx context.Context, payload []byte) error
}

// Enqueuer schedules a named job with a serializable payload. It returns
// once the job is durably stored, never waiting for processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, key string, payload interface{}) error
}
