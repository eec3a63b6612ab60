package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPublishContinuesPastFailingHandler(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(zap.NewNop())

	var calls []string
	dispatcher.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		calls = append(calls, "failing")
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTaskCreated, func(context.Context, Event) error {
		calls = append(calls, "next")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e1", Type: EventTaskCreated})
	require.NoError(t, err)
	require.Equal(t, []string{"failing", "next"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher(nil)

	require.NoError(t, dispatcher.Publish(context.Background(), Event{ID: "e1", Type: EventCommentAdded}))
}
