// Package mainloop provides the single foreground "UI thread" that owns all
// controller state. Asynchronous work posts its completions here so that no
// locking is needed on the consuming side.
package mainloop

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// DefaultQueueSize is the number of posted functions buffered before Post blocks.
const DefaultQueueSize = 64

// Dispatcher schedules functions onto a single logical thread.
type Dispatcher interface {
	Post(fn func())
}

// DispatcherFunc adapts a function to the Dispatcher interface.
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Inline runs every posted function immediately on the caller's goroutine.
var Inline Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Loop runs posted functions one at a time, in order, on the goroutine that
// calls Run.
type Loop struct {
	queue   chan func()
	logger  *logrus.Logger
	stopped chan struct{}
	once    sync.Once
	running atomic.Bool
}

// New creates a loop. queueSize <= 0 selects DefaultQueueSize.
func New(queueSize int, logger *logrus.Logger) *Loop {
	if logger == nil {
		logger = logrus.New()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Loop{
		queue:   make(chan func(), queueSize),
		logger:  logger,
		stopped: make(chan struct{}),
	}
}

// Post enqueues fn. Functions posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	select {
	case <-l.stopped:
		l.logger.Debug("Main loop stopped, dropping posted function")
		return
	default:
	}

	select {
	case l.queue <- fn:
	case <-l.stopped:
		l.logger.Debug("Main loop stopped, dropping posted function")
	}
}

// Run drains the queue until ctx is done. It may be called only once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		panic("mainloop: Run called more than once")
	}
	defer l.once.Do(func() { close(l.stopped) })

	l.logger.Debug("Main loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("Main loop stopping")
			return ctx.Err()
		case fn := <-l.queue:
			l.invoke(fn)
		}
	}
}

// Stopped is closed when Run returns.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.WithField("panic", r).Error("Recovered panic in main loop function")
		}
	}()
	fn()
}
