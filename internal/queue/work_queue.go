package queue

import (
	"context"
	"sync"

	"github.com/umbraco/Umbraco.AI-sub015/internal/domain"
)

// DefaultCapacity is the bound used by NewDefault.
const DefaultCapacity = 1000

// State is the lifecycle state of a WorkQueue.
type State int

const (
	// StateOpen accepts both enqueues and dequeues.
	StateOpen State = iota
	// StateDraining rejects enqueues; dequeues return the remaining items.
	StateDraining
	// StateClosed rejects both operations.
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateDraining:
		return "draining"
	case StateClosed:
		return "closed"
	}
	return "unknown"
}

// WorkQueue is a bounded FIFO hand-off between any number of producers and a
// single background consumer.
//
// When full, Enqueue blocks instead of dropping or rejecting, so a slow
// consumer applies back-pressure to producers. Every blocking call also
// selects on its context; a call that gives up leaves the buffer untouched.
//
// Items live in a fixed ring guarded by mu. Waiters park on notEmpty or
// notFull, which are closed and replaced on every change that could let them
// proceed. No lock is held while a dequeued item runs.
type WorkQueue struct {
	mu       sync.Mutex
	buf      []WorkItem
	head     int
	count    int
	state    State
	notEmpty chan struct{}
	notFull  chan struct{}
}

// New creates a WorkQueue holding at most capacity items.
func New(capacity int) (*WorkQueue, error) {
	if capacity <= 0 {
		return nil, domain.ErrInvalidCapacity
	}
	return &WorkQueue{
		buf:      make([]WorkItem, capacity),
		notEmpty: make(chan struct{}),
		notFull:  make(chan struct{}),
	}, nil
}

// NewDefault creates a WorkQueue with DefaultCapacity.
func NewDefault() *WorkQueue {
	q, _ := New(DefaultCapacity)
	return q
}

// Enqueue appends item to the tail of the queue.
//
// If the queue is at capacity the caller blocks until the consumer frees a
// slot, ctx is done, or the queue stops accepting work. Returns ctx.Err() on
// cancellation and ErrQueueClosed once the queue is draining or closed.
// A nil return means the item is in the buffer and will be handed to the
// consumer exactly once.
func (q *WorkQueue) Enqueue(ctx context.Context, item WorkItem) error {
	if !item.Valid() {
		return domain.ErrInvalidWorkItem
	}

	for {
		q.mu.Lock()
		if q.state != StateOpen {
			q.mu.Unlock()
			return domain.ErrQueueClosed
		}
		if q.count < len(q.buf) {
			q.buf[(q.head+q.count)%len(q.buf)] = item
			q.count++
			q.broadcast(&q.notEmpty)
			q.mu.Unlock()
			return nil
		}
		wait := q.notFull
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Dequeue removes and returns the item at the head of the queue.
//
// If the queue is empty the caller blocks until an item arrives, ctx is done,
// or the queue shuts down. A draining queue keeps returning items until it is
// empty, then moves to StateClosed. Returns ctx.Err() on cancellation and
// ErrQueueClosed once nothing more will ever be delivered.
//
// Only one goroutine may call Dequeue at a time.
func (q *WorkQueue) Dequeue(ctx context.Context) (WorkItem, error) {
	for {
		q.mu.Lock()
		if q.state == StateClosed {
			q.mu.Unlock()
			return WorkItem{}, domain.ErrQueueClosed
		}
		if q.count > 0 {
			item := q.buf[q.head]
			q.buf[q.head] = WorkItem{}
			q.head = (q.head + 1) % len(q.buf)
			q.count--
			q.broadcast(&q.notFull)
			q.mu.Unlock()
			return item, nil
		}
		if q.state == StateDraining {
			q.state = StateClosed
			q.broadcast(&q.notFull)
			q.broadcast(&q.notEmpty)
			q.mu.Unlock()
			return WorkItem{}, domain.ErrQueueClosed
		}
		wait := q.notEmpty
		q.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return WorkItem{}, ctx.Err()
		}
	}
}

// Drain stops accepting new items. Items already queued remain available to
// Dequeue; once they are gone the queue closes itself. Blocked producers are
// released with ErrQueueClosed. Draining a closed queue is a no-op.
func (q *WorkQueue) Drain() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state != StateOpen {
		return
	}
	if q.count == 0 {
		q.state = StateClosed
	} else {
		q.state = StateDraining
	}
	q.broadcast(&q.notFull)
	q.broadcast(&q.notEmpty)
}

// Close shuts the queue down immediately. Every blocked or future Enqueue and
// Dequeue returns ErrQueueClosed. It returns the number of items that were
// still buffered and will never run.
func (q *WorkQueue) Close() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.state == StateClosed {
		return 0
	}
	abandoned := q.count
	for i := 0; i < q.count; i++ {
		q.buf[(q.head+i)%len(q.buf)] = WorkItem{}
	}
	q.head, q.count = 0, 0
	q.state = StateClosed
	q.broadcast(&q.notFull)
	q.broadcast(&q.notEmpty)
	return abandoned
}

// Len returns the number of items currently buffered.
func (q *WorkQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the fixed capacity set at construction.
func (q *WorkQueue) Cap() int {
	return len(q.buf)
}

// State returns the current lifecycle state.
func (q *WorkQueue) State() State {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// broadcast wakes every goroutine parked on *ch. Caller must hold mu.
func (q *WorkQueue) broadcast(ch *chan struct{}) {
	close(*ch)
	*ch = make(chan struct{})
}
