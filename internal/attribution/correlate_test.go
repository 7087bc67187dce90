package attribution

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radiusdt/roas-attribution/internal/models"
	"github.com/radiusdt/roas-attribution/internal/storage"
)

func TestCorrelatorEvents(t *testing.T) {
	store := storage.NewInMemoryEventStore()
	store.AddEvent(models.AdEvent{RoasUserID: "u1", IPv4: "1.2.3.4", AdID: "a"})
	store.AddEvent(models.AdEvent{RoasUserID: "u1", IPv6: "1.2.3.4", AdID: "b"})
	store.AddEvent(models.AdEvent{RoasUserID: "u1", IPv4: "9.9.9.9", AdID: "c"})
	store.AddEvent(models.AdEvent{RoasUserID: "other", IPv4: "1.2.3.4", AdID: "d"})

	c := NewCorrelator(store, zap.NewNop())

	events, err := c.Events(context.Background(), models.Customer{
		RoasUserID: "u1",
		IPAddress:  "1.2.3.4",
	})
	require.NoError(t, err)

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.AdID)
	}
	assert.ElementsMatch(t, []string{"a", "b"}, ids)
}

func TestCorrelatorEmptyResult(t *testing.T) {
	c := NewCorrelator(storage.NewInMemoryEventStore(), zap.NewNop())

	events, err := c.Events(context.Background(), models.Customer{
		RoasUserID: "u1",
		IPAddress:  "1.2.3.4",
	})
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCorrelatorMissingArguments(t *testing.T) {
	c := NewCorrelator(storage.NewInMemoryEventStore(), zap.NewNop())

	_, err := c.Events(context.Background(), models.Customer{IPAddress: "1.2.3.4"})
	assert.True(t, IsMissingArgument(err))

	_, err = c.Events(context.Background(), models.Customer{RoasUserID: "u1"})
	assert.True(t, IsMissingArgument(err))
}
