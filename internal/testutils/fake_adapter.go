package testutils

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/srg/wearlink/internal/wearable/goble"
)

// FakeLink is an in-memory BLE connection.
type FakeLink struct {
	address string

	mu           sync.Mutex
	cancels      int
	disconnected chan struct{}
	dropped      bool
}

func NewFakeLink(address string) *FakeLink {
	return &FakeLink{address: address, disconnected: make(chan struct{})}
}

func (l *FakeLink) Addr() string { return l.address }

func (l *FakeLink) CancelConnection() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cancels++
	l.dropLocked()
	return nil
}

func (l *FakeLink) Disconnected() <-chan struct{} { return l.disconnected }

// Drop simulates the peripheral going away.
func (l *FakeLink) Drop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.dropLocked()
}

func (l *FakeLink) dropLocked() {
	if !l.dropped {
		l.dropped = true
		close(l.disconnected)
	}
}

// Cancels returns how many times CancelConnection was called.
func (l *FakeLink) Cancels() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancels
}

// FakeAdapter replays scripted advertisements and records dials.
//
// Scan delivers every advertisement in order, Interval apart, then blocks
// until ctx is done. ScanErr, when set, is returned right after the
// advertisements instead.
type FakeAdapter struct {
	mu sync.Mutex

	Advertisements []goble.Advertisement
	Interval       time.Duration
	ScanErr        error

	// DialErr fails every dial. BlockDial makes Dial wait for its context.
	DialErr   error
	BlockDial bool

	scans  int
	dialed []string
	links  []*FakeLink
}

// NewFakeAdapter creates an adapter advertising advs.
func NewFakeAdapter(advs ...goble.Advertisement) *FakeAdapter {
	return &FakeAdapter{Advertisements: advs}
}

func (a *FakeAdapter) Scan(ctx context.Context, allowDup bool, handler func(goble.Advertisement)) error {
	a.mu.Lock()
	a.scans++
	advs := append([]goble.Advertisement(nil), a.Advertisements...)
	interval := a.Interval
	scanErr := a.ScanErr
	a.mu.Unlock()

	for _, adv := range advs {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		handler(adv)
		if interval > 0 {
			select {
			case <-time.After(interval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	if scanErr != nil {
		return scanErr
	}
	<-ctx.Done()
	return ctx.Err()
}

func (a *FakeAdapter) Dial(ctx context.Context, address string) (goble.Link, error) {
	a.mu.Lock()
	a.dialed = append(a.dialed, strings.ToLower(address))
	dialErr := a.DialErr
	block := a.BlockDial
	a.mu.Unlock()

	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if dialErr != nil {
		return nil, dialErr
	}

	link := NewFakeLink(address)
	a.mu.Lock()
	a.links = append(a.links, link)
	a.mu.Unlock()
	return link, nil
}

// Scans returns how many scans were started.
func (a *FakeAdapter) Scans() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scans
}

// Dialed returns the lowercased addresses dialed so far.
func (a *FakeAdapter) Dialed() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.dialed...)
}

// Links returns the links handed out so far.
func (a *FakeAdapter) Links() []*FakeLink {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]*FakeLink(nil), a.links...)
}
