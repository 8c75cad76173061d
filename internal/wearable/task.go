package wearable

import (
	"context"
	"errors"
	"sync"

	"github.com/srg/wearlink/internal/mainloop"
)

// ConnectionTask is one in-flight connect or reconnect attempt.
type ConnectionTask interface {
	// Start launches the attempt. Calling it more than once has no effect.
	Start()
	// Cancel asks the attempt to stop. The outcome becomes Cancelled unless
	// it was already delivered.
	Cancel()
	// Done is closed once the completion handler has returned.
	Done() <-chan struct{}
}

// Worker performs the blocking part of a Task. It must honour ctx.
type Worker[T any] func(ctx context.Context) (T, error)

// Task is a cancellable asynchronous unit of work with a single-fire,
// three-way completion delivered on a dispatcher.
//
// The first terminal outcome wins. The worker's result is settled on the
// dispatcher: if Cancel was requested before that happens the outcome is
// Cancelled whatever the worker returned, and a produced value is handed to
// the discard hook instead of the completion.
type Task[T any] struct {
	name       string
	work       Worker[T]
	dispatch   mainloop.Dispatcher
	completion func(Result[T])
	discard    func(T)

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	started   bool
	cancelled bool
	delivered bool
	done      chan struct{}
}

// NewTask creates a task that is not yet started. A nil dispatcher runs the
// completion inline on the worker goroutine.
func NewTask[T any](name string, d mainloop.Dispatcher, work Worker[T], completion func(Result[T])) *Task[T] {
	if d == nil {
		d = mainloop.Inline
	}
	if completion == nil {
		completion = func(Result[T]) {}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Task[T]{
		name:       name,
		work:       work,
		dispatch:   d,
		completion: completion,
		ctx:        ctx,
		cancel:     cancel,
		done:       make(chan struct{}),
	}
}

// OnDiscard registers a hook that receives a successful value which arrived
// after cancellation or after another outcome was delivered.
func (t *Task[T]) OnDiscard(fn func(T)) *Task[T] {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.discard = fn
	return t
}

func (t *Task[T]) Name() string {
	return t.name
}

func (t *Task[T]) Start() {
	t.mu.Lock()
	if t.started || t.delivered {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	mainloop.Go(t.ctx, "task:"+t.name, func(ctx context.Context) {
		v, err := t.work(ctx)
		t.finish(v, err)
	})
}

func (t *Task[T]) Cancel() {
	t.mu.Lock()
	if t.cancelled || t.delivered {
		t.mu.Unlock()
		return
	}
	t.cancelled = true
	notStarted := !t.started
	if notStarted {
		t.delivered = true
	}
	t.mu.Unlock()

	t.cancel()
	if notStarted {
		t.deliver(Cancelled[T]())
	}
}

func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Cancelled reports whether Cancel was requested.
func (t *Task[T]) Cancelled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cancelled
}

// finish posts the worker's result. The outcome is decided on the dispatcher,
// so a Cancel that runs before the posted function still wins.
func (t *Task[T]) finish(v T, err error) {
	t.cancel()
	t.dispatch.Post(func() { t.settle(v, err) })
}

func (t *Task[T]) settle(v T, err error) {
	t.mu.Lock()
	already := t.delivered
	cancelled := t.cancelled
	t.delivered = true
	discard := t.discard
	t.mu.Unlock()

	if already || cancelled {
		if err == nil && discard != nil {
			discard(v)
		}
		if !already {
			defer close(t.done)
			t.completion(Cancelled[T]())
		}
		return
	}

	defer close(t.done)
	switch {
	case err == nil:
		t.completion(Success(v))
	case errors.Is(err, context.Canceled):
		t.completion(Cancelled[T]())
	default:
		t.completion(Failure[T](err))
	}
}

func (t *Task[T]) deliver(r Result[T]) {
	t.dispatch.Post(func() {
		defer close(t.done)
		t.completion(r)
	})
}
