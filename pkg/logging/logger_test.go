package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/doshii/pkg/logging"
)

func TestComponent(t *testing.T) {
	tl := logging.NewTestLogger(t)

	logging.Component(tl.Logger, "realtime").Info().Msg("opening socket")

	tl.AssertContains(t, `"component":"realtime"`)
	tl.AssertContains(t, "opening socket")
	assert.NotNil(t, logging.Component(nil, "transport"))
}

func TestRealtimeFields(t *testing.T) {
	tl := logging.NewTestLogger(t)
	hub := logging.Component(tl.Logger, "realtime")

	logging.Session(hub, "6f1c").Info().Msg("Realtime socket open")
	logging.Subscriber(hub, "lq3x9k-1", "order_created").Error().Msg("Subscriber callback failed")
	logging.Subscriber(hub, "lq3x9k-2", "").Debug().Msg("Subscriber added")

	entries := tl.Entries(t)
	require.Len(t, entries, 3)

	assert.Equal(t, "realtime", entries[0][logging.FieldComponent])
	assert.Equal(t, "6f1c", entries[0][logging.FieldSession])

	assert.Equal(t, "lq3x9k-1", entries[1][logging.FieldSubscriber])
	assert.Equal(t, "order_created", entries[1][logging.FieldEvent])
	assert.Equal(t, "error", entries[1]["level"])

	assert.Equal(t, "lq3x9k-2", entries[2][logging.FieldSubscriber])
	assert.NotContains(t, entries[2], logging.FieldEvent)
}

func TestSubscriberWithoutLogger(t *testing.T) {
	assert.NotNil(t, logging.Subscriber(nil, "id", "pong"))
	assert.NotNil(t, logging.Session(nil, "id"))
}

func TestTestLogger(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Info().Msg("first")
	tl.Trace().Msg("second")

	assert.Len(t, tl.Entries(t), 2)
	tl.AssertNotContains(t, "third")
	assert.True(t, tl.Contains("second"))
}
