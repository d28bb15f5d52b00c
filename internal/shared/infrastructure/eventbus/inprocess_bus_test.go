package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInProcessBus_DeliversByPrefix(t *testing.T) {
	bus := NewInProcessBus(nil)

	var bookingKeys, blockKeys []string
	bus.Subscribe("booking.", func(ctx context.Context, key string, payload []byte) error {
		bookingKeys = append(bookingKeys, key)
		return nil
	})
	bus.Subscribe("availability.", func(ctx context.Context, key string, payload []byte) error {
		blockKeys = append(blockKeys, key)
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "booking.confirmed", []byte(`{}`)))
	require.NoError(t, bus.Publish(context.Background(), "availability.block.created", []byte(`{}`)))

	assert.Equal(t, []string{"booking.confirmed"}, bookingKeys)
	assert.Equal(t, []string{"availability.block.created"}, blockKeys)
}

func TestInProcessBus_EmptyPrefixMatchesAll(t *testing.T) {
	bus := NewInProcessBus(nil)

	count := 0
	bus.Subscribe("", func(ctx context.Context, key string, payload []byte) error {
		count++
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "booking.created", nil))
	require.NoError(t, bus.Publish(context.Background(), "availability.cleared", nil))

	assert.Equal(t, 2, count)
}

func TestInProcessBus_HandlerErrorDoesNotFailPublish(t *testing.T) {
	bus := NewInProcessBus(nil)
	bus.Subscribe("", func(ctx context.Context, key string, payload []byte) error {
		return errors.New("handler failed")
	})

	assert.NoError(t, bus.Publish(context.Background(), "booking.created", nil))
}
