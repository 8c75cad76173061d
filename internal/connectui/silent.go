package connectui

import (
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable"
)

// silentUI implements ConnectUI without presenting anything.
type silentUI struct {
	logger *logrus.Logger
}

// Silent returns a ConnectUI that suppresses all prompts and auto-selects the
// first device found with full or strong signal.
func Silent(logger *logrus.Logger) ConnectUI {
	if logger == nil {
		logger = logrus.New()
	}
	return &silentUI{logger: logger}
}

func (s *silentUI) Start()         {}
func (s *silentUI) Push(Element)   {}
func (s *silentUI) Pop()           {}
func (s *silentUI) Restart()       {}
func (s *silentUI) OpenURL(string) {}
func (s *silentUI) Finish()        {}

func (s *silentUI) NewAlert(Alert) AlertUI { return discarded{} }
func (s *silentUI) NewInfo(Info) InfoUI    { return discarded{} }

func (s *silentUI) NewSearchUI() SearchUI {
	return NewAutoSelectSearch(s.logger)
}

// discarded is the alert and info UI of the silent strategy.
type discarded struct{}

func (discarded) Present() {}
func (discarded) Dismiss() {}

// AutoSelectSearch selects the first candidate whose signal is full or strong.
// Once a device is selected, later candidates are never re-evaluated.
type AutoSelectSearch struct {
	mu       sync.Mutex
	delegate SearchDelegate
	selected *wearable.DiscoveredDevice
	logger   *logrus.Logger
}

// NewAutoSelectSearch creates an auto-selecting search UI.
func NewAutoSelectSearch(logger *logrus.Logger) *AutoSelectSearch {
	if logger == nil {
		logger = logrus.New()
	}
	return &AutoSelectSearch{logger: logger}
}

func (a *AutoSelectSearch) Present() {}

func (a *AutoSelectSearch) SetDelegate(d SearchDelegate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.delegate = d
}

func (a *AutoSelectSearch) Add(dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	a.addOrUpdate(dev, state)
}

func (a *AutoSelectSearch) Update(dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	a.addOrUpdate(dev, state)
}

func (a *AutoSelectSearch) Remove(wearable.DiscoveredDevice) {}
func (a *AutoSelectSearch) RemoveAll()                       {}

func (a *AutoSelectSearch) Selected() (wearable.DiscoveredDevice, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.selected == nil {
		return wearable.DiscoveredDevice{}, false
	}
	return *a.selected, true
}

func (a *AutoSelectSearch) addOrUpdate(dev wearable.DiscoveredDevice, state wearable.DeviceState) {
	a.mu.Lock()
	if a.selected != nil {
		a.mu.Unlock()
		return
	}

	fields := logrus.Fields{
		"device":  dev.DisplayName(),
		"address": dev.Address,
	}

	if state.Kind != wearable.StateFound {
		a.mu.Unlock()
		a.logger.WithFields(fields).WithField("state", state.String()).Debug("Ignoring device")
		return
	}

	fields["strength"] = state.Strength.String()
	switch state.Strength {
	case wearable.SignalFull, wearable.SignalStrong:
		selected := dev
		a.selected = &selected
		delegate := a.delegate
		a.mu.Unlock()

		a.logger.WithFields(fields).Info("Selecting device")
		if delegate != nil {
			delegate.DeviceSelected(selected)
		}
	default:
		a.mu.Unlock()
		a.logger.WithFields(fields).Debug("Ignoring device with weak signal")
	}
}
