package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	e := BaseEvent{Type: PaymentCharged, Data: map[string]interface{}{"amount": float64(1250)}, OccurredAt: at}

	raw, err := Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"payment.charged","data":{"amount":1250},"occurred_at":"2024-03-01T10:00:00Z"}`, string(raw))

	got, err := Unmarshal(raw)
	require.NoError(t, err)
	assert.Equal(t, e, got)
}

func TestUnmarshalRejectsGarbage(t *testing.T) {
	_, err := Unmarshal([]byte("not json"))
	assert.Error(t, err)
}
