package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHandler struct {
	key      string
	err      error
	payloads [][]byte
}

func (h *stubHandler) Key() string { return h.key }

func (h *stubHandler) Process(_ context.Context, payload []byte) error {
	h.payloads = append(h.payloads, payload)
	return h.err
}

func TestDispatchRoutesByKey(t *testing.T) {
	w := NewWorker(nil, "test-worker", 5)
	mail := &stubHandler{key: "SubscriptionMail"}
	other := &stubHandler{key: "PasswordResetMail"}
	w.Register(mail)
	w.Register(other)

	err := w.Dispatch(context.Background(), "SubscriptionMail", []byte(`{"a":1}`))
	require.NoError(t, err)

	require.Len(t, mail.payloads, 1)
	assert.Equal(t, []byte(`{"a":1}`), mail.payloads[0])
	assert.Empty(t, other.payloads)
}

func TestDispatchPropagatesHandlerError(t *testing.T) {
	w := NewWorker(nil, "test-worker", 5)
	boom := errors.New("smtp down")
	w.Register(&stubHandler{key: "SubscriptionMail", err: boom})

	err := w.Dispatch(context.Background(), "SubscriptionMail", nil)
	assert.ErrorIs(t, err, boom)
}

func TestDispatchUnknownKey(t *testing.T) {
	w := NewWorker(nil, "test-worker", 5)

	err := w.Dispatch(context.Background(), "NoSuchJob", nil)
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestRegisterDuplicateKeyPanics(t *testing.T) {
	w := NewWorker(nil, "test-worker", 5)
	w.Register(&stubHandler{key: "SubscriptionMail"})

	assert.Panics(t, func() {
		w.Register(&stubHandler{key: "SubscriptionMail"})
	})
}

func TestNewWorkerRaisesMaxDeliverToCoverBackoff(t *testing.T) {
	w := NewWorker(nil, "test-worker", 1)
	assert.Equal(t, len(retryBackoff)+1, w.maxDeliver)

	w = NewWorker(nil, "test-worker", 10)
	assert.Equal(t, 10, w.maxDeliver)
}
