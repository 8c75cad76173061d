// Package store persists the most recently connected device so the next run
// can try to reconnect to it without user interaction.
package store

import (
	"sync"

	"github.com/srg/wearlink/internal/wearable"
)

// Store records the identity of the most recently connected device.
type Store interface {
	// MostRecent returns the last remembered device. ok is false when nothing
	// has been remembered yet, which is not an error.
	MostRecent() (dev wearable.DeviceHandle, ok bool, err error)
	Remember(dev wearable.DeviceHandle) error
	Forget() error
}

// Memory is an in-process Store.
type Memory struct {
	mu  sync.RWMutex
	dev *wearable.DeviceHandle
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) MostRecent() (wearable.DeviceHandle, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.dev == nil {
		return wearable.DeviceHandle{}, false, nil
	}
	return *m.dev, true, nil
}

func (m *Memory) Remember(dev wearable.DeviceHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dev = &dev
	return nil
}

func (m *Memory) Forget() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dev = nil
	return nil
}
