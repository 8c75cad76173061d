// Package home implements the home screen controller: silent reconnection to
// the most recent wearable on appearance, interactive connection on request and
// simulated sessions for offline work.
package home

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/store"
	"github.com/srg/wearlink/internal/wearable"
)

// ReconnectStatus is shown while a reconnection is pending.
const ReconnectStatus = "Reconnection request sent..."

// SDK is the connectivity SDK the controller drives.
type SDK interface {
	StartConnection(mode wearable.Mode, intent wearable.SensorIntent, completion wearable.Completion) wearable.ConnectionTask
	CreateSimulatedSession() wearable.Session
	ReconnectTask(device wearable.DeviceHandle, removeTimeout time.Duration, sensor wearable.SensorIntent,
		gesture wearable.GestureIntent, ui connectui.ConnectUI, completion wearable.Completion) wearable.ConnectionTask
}

// Options configures a Controller.
type Options struct {
	// ReconnectTimeout bounds how long a reconnect waits for the device to reappear.
	ReconnectTimeout time.Duration
	SensorIntent     wearable.SensorIntent
	// ConnectToLast enables the silent reconnect on Appear.
	ConnectToLast bool
	Version       string
}

// DefaultOptions returns the home screen defaults.
func DefaultOptions() *Options {
	return &Options{
		ReconnectTimeout: 15 * time.Second,
		SensorIntent:     wearable.DefaultSensorIntent(),
		ConnectToLast:    true,
		Version:          "dev",
	}
}

// Controller coordinates the SDK, the last-device store and the presenter.
// It is not safe for concurrent use: every method, and every SDK completion,
// must run on the main loop.
type Controller struct {
	sdk       SDK
	store     store.Store
	presenter Presenter
	silent    connectui.ConnectUI
	opts      Options
	logger    *logrus.Logger

	// task is the single live connection attempt, nil when idle.
	task wearable.ConnectionTask
}

// NewController creates a controller.
func NewController(sdk SDK, st store.Store, p Presenter, opts *Options, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.New()
	}
	if opts == nil {
		opts = DefaultOptions()
	}
	return &Controller{
		sdk:       sdk,
		store:     st,
		presenter: p,
		silent:    connectui.Silent(logger),
		opts:      *opts,
		logger:    logger,
	}
}

// Load shows the idle status line.
func (c *Controller) Load() {
	c.presenter.SetStatus(c.idleStatus(), ToneNormal)
}

// Appear is called whenever the home screen becomes visible.
func (c *Controller) Appear() {
	if !c.opts.ConnectToLast {
		c.logger.Debug("Connect to last device disabled, skipping reconnection")
		return
	}
	c.Reconnect()
}

// Pending reports whether a connection attempt is in flight.
func (c *Controller) Pending() bool {
	return c.task != nil
}

// Reconnect silently restores the connection to the most recent device. It
// returns false when there is no device to reconnect to.
func (c *Controller) Reconnect() bool {
	dev, ok, err := c.store.MostRecent()
	if err != nil {
		c.logger.WithError(err).Warn("Failed to read most recent device")
		return false
	}
	if !ok {
		c.logger.Info("No recent connected device")
		return false
	}

	c.cancelTask()

	c.logger.WithFields(logrus.Fields{
		"device":  dev.DisplayName(),
		"address": dev.Address,
	}).Info("Sending reconnection request...")

	var task wearable.ConnectionTask
	task = c.sdk.ReconnectTask(dev, c.opts.ReconnectTimeout, c.opts.SensorIntent, wearable.GestureIntent{}, c.silent,
		func(r wearable.Result[wearable.Session]) {
			current := c.task == task
			switch r.Kind {
			case wearable.ResultSuccess:
				if !current {
					c.logger.Info("Reconnection superseded, releasing session")
					c.release(r.Value)
					break
				}
				c.logger.Info("Reconnection success")
				c.showSession(r.Value)
			case wearable.ResultFailure:
				c.logger.WithError(r.Err).Warn("Reconnection failed")
				if current {
					c.presenter.SetStatus(c.idleStatus(), ToneNormal)
				}
				c.presenter.ShowError(r.Err)
			case wearable.ResultCancelled:
				c.logger.Info("Reconnection cancelled")
				if current {
					c.presenter.SetStatus(c.idleStatus(), ToneNormal)
				}
			}
			c.clearTask(task)
		})

	c.task = task
	task.Start()

	c.presenter.SetStatus(ReconnectStatus, TonePending)
	return true
}

// Connect starts the SDK's interactive search-and-connect flow.
func (c *Controller) Connect() {
	c.cancelTask()

	c.logger.Info("Starting interactive connection...")
	c.presenter.ShowActivity(true)

	var task wearable.ConnectionTask
	finished := false
	task = c.sdk.StartConnection(wearable.ModeAlwaysShow, c.opts.SensorIntent, func(r wearable.Result[wearable.Session]) {
		finished = true
		// A newer attempt owns the screen; a completion arriving before
		// StartConnection returned is still the live one.
		superseded := c.task != nil && c.task != task
		if superseded {
			if r.Kind == wearable.ResultSuccess {
				c.logger.Info("Connection superseded, releasing session")
				c.release(r.Value)
			}
			return
		}
		switch r.Kind {
		case wearable.ResultSuccess:
			c.showSession(r.Value)
		case wearable.ResultFailure:
			c.logger.WithError(r.Err).Warn("Connection failed")
			c.presenter.ShowError(r.Err)
		case wearable.ResultCancelled:
			c.logger.Info("Connection cancelled")
		}
		c.presenter.ShowActivity(false)
		c.clearTask(task)
	})

	if !finished {
		c.task = task
	}
}

// UseSimulated shows a simulated session. It never fails.
func (c *Controller) UseSimulated() {
	c.showSession(c.sdk.CreateSimulatedSession())
}

// Cancel cancels the live connection attempt, if any.
func (c *Controller) Cancel() {
	c.cancelTask()
}

// Forget clears the most recent device so the next Appear does nothing.
func (c *Controller) Forget() error {
	if err := c.store.Forget(); err != nil {
		return fmt.Errorf("failed to forget most recent device: %w", err)
	}
	c.logger.Info("Most recent device forgotten")
	return nil
}

func (c *Controller) showSession(sess wearable.Session) {
	status := fmt.Sprintf("Connected to %s", sess.Device().DisplayName())
	if sess.Simulated() {
		status += " (simulated)"
	}
	c.presenter.SetStatus(status, ToneNormal)
	c.presenter.ShowSession(sess)
}

// release closes a session nobody will present.
func (c *Controller) release(sess wearable.Session) {
	if sess == nil {
		return
	}
	if err := sess.Close(); err != nil {
		c.logger.WithError(err).Warn("Failed to close superseded session")
	}
}

// cancelTask cancels and drops the live task. The task's own completion still
// runs later and is ignored by clearTask because the reference has moved on.
func (c *Controller) cancelTask() {
	if c.task == nil {
		return
	}
	prev := c.task
	c.task = nil
	prev.Cancel()
}

// clearTask drops the reference only if it still points at t.
func (c *Controller) clearTask(t wearable.ConnectionTask) {
	if c.task == t {
		c.task = nil
	}
}

func (c *Controller) idleStatus() string {
	return "wearlink " + c.opts.Version
}
