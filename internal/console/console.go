// Package console routes lines read from the terminal to whichever handler
// currently has focus. Handlers form a stack: the home command prompt sits at
// the bottom and an interactive search pushes itself on top while it runs.
package console

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/google/shlex"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/mainloop"
)

// Handler consumes one input line.
type Handler func(line string)

// Console reads lines from an io.Reader and delivers each one, on the
// dispatcher, to the handler on top of the focus stack.
type Console struct {
	in       io.Reader
	dispatch mainloop.Dispatcher
	logger   *logrus.Logger

	mu     sync.Mutex
	stack  []focused
	nextID uint64
	eof    chan struct{}
}

type focused struct {
	id uint64
	h  Handler
}

// New creates a console. A nil dispatcher delivers lines on the reader goroutine.
func New(in io.Reader, d mainloop.Dispatcher, logger *logrus.Logger) *Console {
	if logger == nil {
		logger = logrus.New()
	}
	if d == nil {
		d = mainloop.Inline
	}
	return &Console{
		in:       in,
		dispatch: d,
		logger:   logger,
		eof:      make(chan struct{}),
	}
}

// Push gives focus to h until the matching Pop or until the returned release
// is called. release removes exactly this entry, wherever it sits in the stack,
// and is a no-op once the entry is gone.
func (c *Console) Push(h Handler) (release func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	id := c.nextID
	c.stack = append(c.stack, focused{id: id, h: h})
	return func() { c.remove(id) }
}

// Pop removes the focused handler. Popping an empty stack is a no-op.
func (c *Console) Pop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

func (c *Console) remove(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, f := range c.stack {
		if f.id == id {
			c.stack = append(c.stack[:i], c.stack[i+1:]...)
			return
		}
	}
}

// Depth returns the number of stacked handlers.
func (c *Console) Depth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.stack)
}

// Start launches the reader goroutine. EOF closes the channel returned by EOF.
func (c *Console) Start(ctx context.Context) {
	mainloop.Go(ctx, "console-reader", func(ctx context.Context) {
		defer close(c.eof)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			if ctx.Err() != nil {
				return
			}
			line := scanner.Text()
			c.dispatch.Post(func() { c.Deliver(line) })
		}
		if err := scanner.Err(); err != nil {
			c.logger.WithError(err).Warn("Console input failed")
		}
	})
}

// EOF is closed once the input is exhausted.
func (c *Console) EOF() <-chan struct{} {
	return c.eof
}

// Deliver hands line to the focused handler. Lines arriving with no handler
// are dropped.
func (c *Console) Deliver(line string) {
	c.mu.Lock()
	var h Handler
	if n := len(c.stack); n > 0 {
		h = c.stack[n-1].h
	}
	c.mu.Unlock()

	if h == nil {
		c.logger.WithField("line", line).Debug("No console handler focused, dropping line")
		return
	}
	h(strings.TrimSpace(line))
}

// Fields splits a command line with shell quoting rules.
func Fields(line string) ([]string, error) {
	return shlex.Split(line)
}
