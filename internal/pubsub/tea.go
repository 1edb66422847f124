package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd waits for one event on ch and hands it to the update loop as a
// tea.Msg. It yields nil once ctx is done or ch is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// Listener is a subscription owned by a Bubble Tea model. Re-arm it with
// Next after every event it delivers.
type Listener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewListener wraps a subscription channel, e.g. the one a deck hands out.
func NewListener[T any](ctx context.Context, ch <-chan Event[T]) Listener[T] {
	return Listener[T]{ctx: ctx, ch: ch}
}

// Subscribe registers a listener on broker for the lifetime of ctx.
func Subscribe[T any](ctx context.Context, broker *Broker[T]) Listener[T] {
	return NewListener(ctx, broker.Subscribe(ctx))
}

// Next returns a command delivering the next event. A zero Listener never
// delivers.
func (l Listener[T]) Next() tea.Cmd {
	if l.ch == nil {
		return nil
	}
	return ListenCmd(l.ctx, l.ch)
}
