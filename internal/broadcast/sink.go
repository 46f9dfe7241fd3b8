package broadcast

import (
	"context"
	"errors"
	"sync"

	"github.com/smallnest/chanx"
)

// ErrSinkClosed is returned by Send after a sink has been closed.
var ErrSinkClosed = errors.New("sink is closed")

// Sink is an abstract destination capable of receiving events and being
// closed. Transports (SSE connections, test collectors) plug in here.
type Sink interface {
	Send(event Event) error
	Close() error
}

// ChannelSink buffers events on an unbounded channel so a slow consumer never
// blocks Publish. The consumer side drains Events until it is closed.
type ChannelSink struct {
	mu     sync.Mutex
	closed bool
	buf    *chanx.UnboundedChan[Event]
}

// NewChannelSink creates an open channel sink.
func NewChannelSink() *ChannelSink {
	return &ChannelSink{
		// Closing In shuts the worker down after the buffer drains, so the
		// background context is never cancelled directly.
		buf: chanx.NewUnboundedChan[Event](context.Background(), 16),
	}
}

// Send enqueues an event for the consumer. It never blocks.
func (s *ChannelSink) Send(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	s.buf.In <- event
	return nil
}

// Events returns the consumer side of the sink. The channel is closed after
// Close once buffered events have been drained.
func (s *ChannelSink) Events() <-chan Event {
	return s.buf.Out
}

// Close marks the sink closed and lets the buffer drain. Idempotent.
func (s *ChannelSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	close(s.buf.In)
	return nil
}
