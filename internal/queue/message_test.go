package queue

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeMessageWireFormat(t *testing.T) {
	payload, err := EncodeMessage(Message{
		LeadID:     "lead-123",
		EnqueuedAt: "2026-03-01T09:00:00Z",
		Version:    MessageVersion,
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"leadId":"lead-123","enqueuedAt":"2026-03-01T09:00:00Z","version":1}`, string(payload))
}

func TestDecodeMessageRejectsGarbage(t *testing.T) {
	_, err := DecodeMessage([]byte("{nope"))
	assert.Error(t, err)
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")

	assert.Equal(t, "req-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
}
