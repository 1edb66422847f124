package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)

	// Publish an event
	broker.Publish(UpdatedEvent, "hello world")

	// Create the command and execute it
	cmd := ListenCmd(ctx, ch)
	msg := cmd()

	// Should receive the event as tea.Msg
	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "hello world", event.Payload)
	require.Equal(t, UpdatedEvent, event.Type)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	// Cancel context before executing command
	cancel()
	time.Sleep(20 * time.Millisecond) // Wait for cleanup

	// Execute command - should return nil due to cancelled context
	cmd := ListenCmd(ctx, ch)
	msg := cmd()

	require.Nil(t, msg, "should return nil when context cancelled")
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	// Create a channel and close it immediately
	ch := make(chan Event[string])
	close(ch)

	ctx := context.Background()

	// Execute command - should return nil due to closed channel
	cmd := ListenCmd(ctx, ch)
	msg := cmd()

	require.Nil(t, msg, "should return nil when channel closed")
}

func TestListener_NextDeliversInOrder(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := Subscribe(ctx, broker)

	broker.Publish(CreatedEvent, 1)
	broker.Publish(UpdatedEvent, 2)
	broker.Publish(DeletedEvent, 3)

	for _, want := range []struct {
		typ     EventType
		payload int
	}{{CreatedEvent, 1}, {UpdatedEvent, 2}, {DeletedEvent, 3}} {
		event, ok := listener.Next()().(Event[int])
		require.True(t, ok, "msg should be Event[int]")
		require.Equal(t, want.payload, event.Payload)
		require.Equal(t, want.typ, event.Type)
	}
}

func TestListener_ZeroValue(t *testing.T) {
	var listener Listener[string]
	require.Nil(t, listener.Next())
}

func TestNewListener_WrapsChannel(t *testing.T) {
	ch := make(chan Event[string], 1)
	ch <- Event[string]{Type: UpdatedEvent, Payload: "slides"}

	listener := NewListener(context.Background(), ch)
	event, ok := listener.Next()().(Event[string])
	require.True(t, ok)
	require.Equal(t, "slides", event.Payload)

	close(ch)
	require.Nil(t, listener.Next()())
}
