package queue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	fetchBatch = 10
	fetchWait  = 5 * time.Second
	ackWait    = 30 * time.Second
)

// retryBackoff spaces out redeliveries of failed jobs. The consumer's
// MaxDeliver must exceed its length; after the last attempt the message
// stays in the stream as dead.
var retryBackoff = []time.Duration{
	30 * time.Second,
	2 * time.Minute,
	10 * time.Minute,
}

// Worker consumes the job stream and dispatches each message to the
// handler registered for its key. Several worker processes may share the
// same durable consumer; JetStream hands each message to exactly one of
// them at a time, redelivering after a crash (at-least-once).
type Worker struct {
	client     *Client
	durable    string
	maxDeliver int
	handlers   map[string]Handler
}

// NewWorker creates a worker bound to the client's stream.
func NewWorker(client *Client, durable string, maxDeliver int) *Worker {
	if maxDeliver <= len(retryBackoff) {
		maxDeliver = len(retryBackoff) + 1
	}
	return &Worker{
		client:     client,
		durable:    durable,
		maxDeliver: maxDeliver,
		handlers:   make(map[string]Handler),
	}
}

// Register adds a handler for its job key. Registering two handlers for
// the same key is a programming error.
func (w *Worker) Register(h Handler) {
	if _, dup := w.handlers[h.Key()]; dup {
		panic(fmt.Sprintf("queue: duplicate handler for job key %q", h.Key()))
	}
	w.handlers[h.Key()] = h
}

// Dispatch resolves the job key to a handler and runs it. It returns
// ErrUnknownJob when no handler is registered for the key.
func (w *Worker) Dispatch(ctx context.Context, key string, payload []byte) error {
	h, ok := w.handlers[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, key)
	}
	return h.Process(ctx, payload)
}

// Run consumes jobs until the context is cancelled. Failed jobs are
// negatively acknowledged and redelivered on the consumer's backoff
// schedule; jobs with no handler are terminated so they are not
// redelivered forever.
func (w *Worker) Run(ctx context.Context) error {
	sub, err := w.client.js.PullSubscribe(subjectPrefix+">", w.durable,
		nats.BindStream(w.client.stream),
		nats.ManualAck(),
		nats.AckExplicit(),
		nats.AckWait(ackWait),
		nats.MaxDeliver(w.maxDeliver),
		nats.BackOff(retryBackoff),
	)
	if err != nil {
		return fmt.Errorf("failed to subscribe to job stream: %w", err)
	}

	log.Printf("Worker consuming stream %s as %s (%d handlers)", w.client.stream, w.durable, len(w.handlers))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgs, err := sub.Fetch(fetchBatch, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("failed to fetch jobs: %w", err)
		}

		for _, msg := range msgs {
			w.handle(ctx, msg)
		}
	}
}

func (w *Worker) handle(ctx context.Context, msg *nats.Msg) {
	key := strings.TrimPrefix(msg.Subject, subjectPrefix)

	err := w.Dispatch(ctx, key, msg.Data)
	switch {
	case errors.Is(err, ErrUnknownJob):
		log.Printf("Dropping job with unknown key %q", key)
		if err := msg.Term(); err != nil {
			log.Printf("Error terminating job %s: %v", key, err)
		}
	case err != nil:
		log.Printf("Job %s failed: %v", key, err)
		if err := msg.Nak(); err != nil {
			log.Printf("Error nacking job %s: %v", key, err)
		}
	default:
		if err := msg.Ack(); err != nil {
			log.Printf("Error acking job %s: %v", key, err)
		}
	}
}
