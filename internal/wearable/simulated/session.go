// Package simulated provides a wearable session backed by no hardware, for
// development and demos without a device in range.
package simulated

import (
	"sync/atomic"

	"github.com/srg/wearlink/internal/wearable"
)

// Device is the handle every simulated session reports.
var Device = wearable.DeviceHandle{
	ID:      "simulated",
	Name:    "Simulated Wearable",
	Address: "00:00:00:00:00:00",
}

// Session is a simulated wearable session.
type Session struct {
	intent wearable.SensorIntent
	closed atomic.Bool
}

// NewSession creates a simulated session configured with intent.
func NewSession(intent wearable.SensorIntent) *Session {
	return &Session{intent: wearable.NewSensorIntent(intent.Sensors, intent.SamplePeriods)}
}

func (s *Session) Device() wearable.DeviceHandle        { return Device }
func (s *Session) SensorIntent() wearable.SensorIntent { return s.intent }
func (s *Session) Simulated() bool                     { return true }

// Close marks the session closed. It always succeeds.
func (s *Session) Close() error {
	s.closed.Store(true)
	return nil
}

// Closed reports whether Close was called.
func (s *Session) Closed() bool {
	return s.closed.Load()
}
