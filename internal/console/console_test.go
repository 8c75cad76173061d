package console

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ConsoleTestSuite struct {
	suite.Suite
}

func TestConsoleTestSuite(t *testing.T) {
	suite.Run(t, new(ConsoleTestSuite))
}

func (s *ConsoleTestSuite) TestFocusStack() {
	// GOAL: Verify lines reach only the handler on top of the focus stack
	//
	// TEST SCENARIO: Push base, push search → line to search → pop → line to base

	c := New(strings.NewReader(""), nil, nil)
	var base, top []string
	c.Push(func(line string) { base = append(base, line) })
	c.Push(func(line string) { top = append(top, line) })

	c.Deliver("  1 ")
	c.Pop()
	c.Deliver("status")

	s.Equal([]string{"1"}, top, "focused handler MUST receive trimmed line")
	s.Equal([]string{"status"}, base, "base handler MUST receive lines after pop")
	s.Equal(1, c.Depth())
}

func (s *ConsoleTestSuite) TestReleaseRemovesOwnEntry() {
	// GOAL: Verify releasing a buried handler removes only that handler and leaves the focused one in place
	//
	// TEST SCENARIO: Push base, old, new → release old → line to new → release old again → depth unchanged

	c := New(strings.NewReader(""), nil, nil)
	var base, old, current []string
	c.Push(func(line string) { base = append(base, line) })
	releaseOld := c.Push(func(line string) { old = append(old, line) })
	releaseCurrent := c.Push(func(line string) { current = append(current, line) })

	releaseOld()
	c.Deliver("2")
	releaseOld()

	s.Equal([]string{"2"}, current, "top handler MUST keep focus when a buried one is released")
	s.Empty(old, "released handler MUST NOT receive lines")
	s.Equal(2, c.Depth(), "second release MUST be a no-op")

	releaseCurrent()
	c.Deliver("status")
	s.Equal([]string{"status"}, base)
	s.Equal(1, c.Depth())
}

func (s *ConsoleTestSuite) TestDeliverWithoutHandler() {
	// GOAL: Verify lines with no focused handler are dropped without panicking
	//
	// TEST SCENARIO: Empty stack → Deliver → Pop on empty stack → no panic

	c := New(strings.NewReader(""), nil, nil)
	s.NotPanics(func() {
		c.Deliver("connect")
		c.Pop()
	})
	s.Equal(0, c.Depth())
}

func (s *ConsoleTestSuite) TestStartReadsUntilEOF() {
	// GOAL: Verify the reader goroutine delivers every line in order and signals EOF
	//
	// TEST SCENARIO: Reader with 3 lines → Start → 3 deliveries → EOF closed

	c := New(strings.NewReader("connect\nstatus\nquit\n"), nil, nil)

	var mu sync.Mutex
	var lines []string
	c.Push(func(line string) {
		mu.Lock()
		defer mu.Unlock()
		lines = append(lines, line)
	})

	c.Start(context.Background())

	select {
	case <-c.EOF():
	case <-time.After(2 * time.Second):
		s.FailNow("EOF MUST be signalled")
	}

	mu.Lock()
	defer mu.Unlock()
	s.Equal([]string{"connect", "status", "quit"}, lines)
}

func TestFields(t *testing.T) {
	fields, err := Fields(`connect "My Band" --fast`)
	require.NoError(t, err)
	assert.Equal(t, []string{"connect", "My Band", "--fast"}, fields, "quoted arguments MUST stay together")

	fields, err = Fields("   ")
	require.NoError(t, err)
	assert.Empty(t, fields)
}
