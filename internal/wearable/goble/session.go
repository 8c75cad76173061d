package goble

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/mainloop"
	"github.com/srg/wearlink/internal/wearable"
)

// Session is a wearable session over a live BLE link.
type Session struct {
	device   wearable.DeviceHandle
	intent   wearable.SensorIntent
	gestures wearable.GestureIntent
	link     Link
	logger   *logrus.Logger

	closeOnce sync.Once
	closeErr  error
	done      chan struct{}
}

func newSession(dev wearable.DeviceHandle, intent wearable.SensorIntent, gestures wearable.GestureIntent,
	link Link, logger *logrus.Logger) *Session {
	s := &Session{
		device:   dev,
		intent:   wearable.NewSensorIntent(intent.Sensors, intent.SamplePeriods),
		gestures: wearable.GestureIntent{Gestures: append([]wearable.GestureType(nil), gestures.Gestures...)},
		link:     link,
		logger:   logger,
		done:     make(chan struct{}),
	}

	mainloop.Go(context.Background(), "ble-session-monitor", func(ctx context.Context) {
		select {
		case <-link.Disconnected():
			s.logger.WithField("address", dev.Address).Warn("Wearable reported disconnection")
		case <-s.done:
		}
	})

	return s
}

func (s *Session) Device() wearable.DeviceHandle        { return s.device }
func (s *Session) SensorIntent() wearable.SensorIntent { return s.intent }
func (s *Session) Simulated() bool                     { return false }

// GestureIntent returns the gestures requested for this session.
func (s *Session) GestureIntent() wearable.GestureIntent { return s.gestures }

// Disconnected is closed when the peripheral drops the link.
func (s *Session) Disconnected() <-chan struct{} {
	return s.link.Disconnected()
}

// Close cancels the BLE connection. Subsequent calls return the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.closeErr = NormalizeError(s.link.CancelConnection())
		s.logger.WithField("address", s.device.Address).Info("Wearable session closed")
	})
	return s.closeErr
}
