// Package goble implements the wearable connectivity SDK on top of
// github.com/go-ble/ble. Discovery and dialing are delegated to go-ble; this
// package only drives the connect UI and turns the result into a Session.
package goble

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/mainloop"
	"github.com/srg/wearlink/internal/store"
	"github.com/srg/wearlink/internal/wearable"
	"github.com/srg/wearlink/internal/wearable/simulated"
)

// Options configures the SDK.
type Options struct {
	ScanTimeout      time.Duration // interactive search window
	ConnectTimeout   time.Duration // dial timeout once a device is selected
	ReconnectTimeout time.Duration // removal timeout used by ModeConnectToLast
	ServiceUUIDs     []string      // interactive search filter, empty for all
	SensorIntent     wearable.SensorIntent
}

// DefaultOptions returns the options the CLI starts from.
func DefaultOptions() *Options {
	return &Options{
		ScanTimeout:      30 * time.Second,
		ConnectTimeout:   10 * time.Second,
		ReconnectTimeout: 15 * time.Second,
		SensorIntent:     wearable.DefaultSensorIntent(),
	}
}

// SDK is the go-ble backed connectivity SDK.
type SDK struct {
	opts     Options
	services []string
	ui       connectui.ConnectUI
	store    store.Store
	dispatch mainloop.Dispatcher
	logger   *logrus.Logger

	mu      sync.Mutex
	adapter Adapter
}

// New creates an SDK. ui is the interactive strategy used by StartConnection;
// completions are posted on d; successful real sessions are remembered in st.
func New(opts *Options, ui connectui.ConnectUI, st store.Store, d mainloop.Dispatcher, logger *logrus.Logger) (*SDK, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	if ui == nil {
		ui = connectui.Silent(logger)
	}
	if st == nil {
		st = store.NewMemory()
	}

	services := make([]string, 0, len(opts.ServiceUUIDs))
	for _, s := range opts.ServiceUUIDs {
		u, err := NormalizeServiceUUID(s)
		if err != nil {
			return nil, fmt.Errorf("invalid service UUID %q: %w", s, err)
		}
		services = append(services, u)
	}

	return &SDK{
		opts:     *opts,
		services: services,
		ui:       ui,
		store:    st,
		dispatch: d,
		logger:   logger,
	}, nil
}

// StartConnection runs the interactive search-and-connect flow.
func (s *SDK) StartConnection(mode wearable.Mode, intent wearable.SensorIntent, completion wearable.Completion) wearable.ConnectionTask {
	task := wearable.NewTask("connect", s.dispatch, func(ctx context.Context) (wearable.Session, error) {
		return s.connect(ctx, mode, intent)
	}, completion).OnDiscard(s.release)
	task.Start()
	return task
}

// CreateSimulatedSession returns a simulated session with the SDK's intent.
func (s *SDK) CreateSimulatedSession() wearable.Session {
	s.logger.Info("Creating simulated wearable session")
	return simulated.NewSession(s.opts.SensorIntent)
}

// ReconnectTask builds an unstarted task that restores the link to device.
func (s *SDK) ReconnectTask(device wearable.DeviceHandle, removeTimeout time.Duration, sensor wearable.SensorIntent,
	gesture wearable.GestureIntent, ui connectui.ConnectUI, completion wearable.Completion) wearable.ConnectionTask {
	if ui == nil {
		ui = connectui.Silent(s.logger)
	}
	return wearable.NewTask("reconnect", s.dispatch, func(ctx context.Context) (wearable.Session, error) {
		return s.reconnect(ctx, device, removeTimeout, sensor, gesture, ui)
	}, completion).OnDiscard(s.release)
}

func (s *SDK) release(sess wearable.Session) {
	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		s.logger.WithError(err).Warn("Failed to close discarded session")
	}
}

// getAdapter lazily creates the platform adapter; a failed attempt is retried
// on the next call.
func (s *SDK) getAdapter() (Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.adapter != nil {
		return s.adapter, nil
	}
	a, err := AdapterFactory()
	if err != nil {
		return nil, err
	}
	s.adapter = a
	return a, nil
}

func (s *SDK) connect(ctx context.Context, mode wearable.Mode, intent wearable.SensorIntent) (wearable.Session, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	if mode == wearable.ModeConnectToLast {
		sess, err := s.connectToLast(ctx, intent)
		if sess != nil || ctx.Err() != nil {
			return sess, err
		}
		if err != nil {
			s.logger.WithError(err).Info("Reconnection to last device failed, falling back to search")
		}
	}

	ui := connectui.ForAttempt(s.ui)
	ui.Start()
	defer ui.Finish()

	adapter, err := s.getAdapter()
	if err != nil {
		s.presentAdapterError(ui, err)
		return nil, err
	}

	searchUI := ui.NewSearchUI()
	ui.Push(searchUI)
	dev, err := search(ctx, adapter, searchUI, serviceFilter(s.services), s.opts.ScanTimeout, s.logger)
	ui.Pop()
	if errors.Is(err, errNoSelection) {
		return nil, fmt.Errorf("%w: no device selected within %s", wearable.ErrDeviceNotFound, s.opts.ScanTimeout)
	}
	if err != nil {
		return nil, err
	}

	return s.dial(ctx, ui, adapter, dev.Handle(), intent, wearable.GestureIntent{})
}

func (s *SDK) connectToLast(ctx context.Context, intent wearable.SensorIntent) (wearable.Session, error) {
	dev, ok, err := s.store.MostRecent()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return s.reconnect(ctx, dev, s.opts.ReconnectTimeout, intent, wearable.GestureIntent{}, connectui.Silent(s.logger))
}

func (s *SDK) reconnect(ctx context.Context, device wearable.DeviceHandle, removeTimeout time.Duration,
	intent wearable.SensorIntent, gesture wearable.GestureIntent, ui connectui.ConnectUI) (wearable.Session, error) {
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	ui = connectui.ForAttempt(ui)
	ui.Start()
	defer ui.Finish()

	adapter, err := s.getAdapter()
	if err != nil {
		s.presentAdapterError(ui, err)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"device":  device.DisplayName(),
		"address": device.Address,
		"timeout": removeTimeout,
	}).Info("Searching for most recent device...")

	info := ui.NewInfo(connectui.Info{Title: "Searching", Message: device.DisplayName(), Type: connectui.InfoProgress, Cancellable: true})
	ui.Push(info)
	searchUI := ui.NewSearchUI()
	ui.Push(searchUI)
	dev, err := search(ctx, adapter, searchUI, addressFilter(device.Address), removeTimeout, s.logger)
	ui.Pop()
	ui.Pop()
	if errors.Is(err, errNoSelection) {
		return nil, fmt.Errorf("%w: %s did not reappear within %s", wearable.ErrTimeout, device, removeTimeout)
	}
	if err != nil {
		return nil, err
	}

	handle := device
	if dev.Name != "" {
		handle.Name = dev.Name
	}
	return s.dial(ctx, ui, adapter, handle, intent, gesture)
}

func (s *SDK) dial(ctx context.Context, ui connectui.ConnectUI, adapter Adapter, device wearable.DeviceHandle,
	intent wearable.SensorIntent, gesture wearable.GestureIntent) (wearable.Session, error) {
	info := ui.NewInfo(connectui.Info{Title: "Connecting", Message: device.DisplayName(), Type: connectui.InfoProgress})
	ui.Push(info)
	defer ui.Pop()

	dialCtx := ctx
	if s.opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, s.opts.ConnectTimeout)
		defer cancel()
	}

	s.logger.WithField("address", device.Address).Debug("Dialing wearable...")
	link, err := adapter.Dial(dialCtx, device.Address)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if errors.Is(err, wearable.ErrBluetoothOff) {
			s.presentAdapterError(ui, err)
			return nil, err
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: connecting to %s: %v", wearable.ErrTimeout, device, err)
		}
		return nil, fmt.Errorf("%w: %s: %v", wearable.ErrConnectionFailed, device, err)
	}

	sess := newSession(device, intent, gesture, link, s.logger)
	if err := s.store.Remember(device); err != nil {
		s.logger.WithError(err).Warn("Failed to remember most recent device")
	}

	s.logger.WithFields(logrus.Fields{
		"device":  device.DisplayName(),
		"address": device.Address,
		"intent":  intent.String(),
	}).Info("Wearable session opened")
	return sess, nil
}

func (s *SDK) presentAdapterError(ui connectui.ConnectUI, err error) {
	if !errors.Is(err, wearable.ErrBluetoothOff) {
		return
	}
	ui.Push(ui.NewAlert(connectui.Alert{
		Icon:    connectui.AlertError,
		Title:   "Bluetooth is off",
		Message: "Turn on Bluetooth to connect to your wearable.",
	}))
}
