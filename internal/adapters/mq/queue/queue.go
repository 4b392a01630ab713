// Package queue is the host inbox: a bounded, ordered buffer of decoded host
// messages with non-blocking enqueue and channel-based dequeue.
package queue

import (
	"context"
	"sync"

	"github.com/okian/runscope/internal/domain/message"
	"github.com/okian/runscope/pkg/metrics"
)

// Default queue configuration constants.
const (
	defaultQueueCapacity = 256
)

// Message is the payload type flowing through the queue.
type Message = message.Message

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
// Messages are delivered in enqueue order.
type Queue interface {
	// Enqueue adds a message to the queue.
	// Returns false if the queue is full or closed and the message was dropped.
	Enqueue(ctx context.Context, m Message) bool

	// Dequeue returns a channel that receives messages as they become available.
	// The channel is closed when the queue is closed and drained, or ctx ends.
	Dequeue(ctx context.Context) <-chan Message

	// Len returns the current number of queued messages.
	Len(ctx context.Context) int

	// Cap returns the queue capacity.
	Cap() int

	// Close gracefully shuts down the queue.
	Close() error

	// IsClosed returns true if the queue has been closed.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	messages chan Message
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewInMemoryQueue creates a new in-memory queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		capacity: defaultQueueCapacity,
	}

	for _, opt := range opts {
		opt(q)
	}

	q.messages = make(chan Message, q.capacity)

	metrics.UpdateInboxCapacity(q.capacity)
	metrics.UpdateInboxSize(0)

	return q
}

// Enqueue adds a message to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, m Message) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordHostMessageDropped("closed")
		return false
	}

	select {
	case q.messages <- m:
		metrics.UpdateInboxSize(len(q.messages))
		return true
	case <-ctx.Done():
		metrics.RecordHostMessageDropped("context_cancelled")
		return false
	default:
		metrics.RecordHostMessageDropped("inbox_full")
		return false
	}
}

// Dequeue returns a channel that receives messages as they become available.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Message {
	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case m, ok := <-q.messages:
				if !ok {
					return
				}
				select {
				case out <- m:
					metrics.UpdateInboxSize(len(q.messages))
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// Len returns the current number of queued messages.
func (q *InMemoryQueue) Len(_ context.Context) int {
	size := len(q.messages)
	metrics.UpdateInboxSize(size)
	return size
}

// Cap returns the queue capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close gracefully shuts down the queue. Messages already queued are still
// delivered to Dequeue consumers.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}

	close(q.messages)
	q.closed = true

	return nil
}

// IsClosed returns true if the queue has been closed.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
