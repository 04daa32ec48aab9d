package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
)

// subjectPrefix namespaces all job subjects inside the stream. A job
// with key "SubscriptionMail" travels on "jobs.SubscriptionMail".
const subjectPrefix = "jobs."

// Client is the JetStream-backed queue client. It satisfies Enqueuer for
// the API process and exposes the consumer side for the worker.
type Client struct {
	nc     *nats.Conn
	js     nats.JetStreamContext
	stream string
}

// NewClient connects to NATS and makes sure the job stream exists.
func NewClient(url, stream string) (*Client, error) {
	nc, err := nats.Connect(url, nats.Name("meetapp"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("failed to open JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(stream); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			nc.Close()
			return nil, fmt.Errorf("failed to look up stream %s: %w", stream, err)
		}
		_, err = js.AddStream(&nats.StreamConfig{
			Name:      stream,
			Subjects:  []string{subjectPrefix + ">"},
			Retention: nats.WorkQueuePolicy,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("failed to create stream %s: %w", stream, err)
		}
	}

	return &Client{nc: nc, js: js, stream: stream}, nil
}

// Enqueue marshals the payload and publishes it under the job key. It
// returns once JetStream has acknowledged the publish, i.e. the job is
// durably scheduled. It never blocks on job completion.
func (c *Client) Enqueue(ctx context.Context, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload for job %s: %w", key, err)
	}

	if _, err := c.js.Publish(subjectPrefix+key, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("failed to enqueue job %s: %w", key, err)
	}
	return nil
}

// Close drains the connection, flushing pending publishes.
func (c *Client) Close() error {
	return c.nc.Drain()
}
