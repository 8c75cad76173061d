// Package connectui defines the pluggable user interface an SDK drives while it
// searches for and connects to a device, together with two strategies:
// Silent, which never surfaces anything and auto-selects a strong device, and
// Interactive, which renders candidates on a terminal and lets the user pick.
package connectui

import "github.com/srg/wearlink/internal/wearable"

// Element is anything a ConnectUI can push onto its presentation stack.
type Element interface {
	Present()
}

// SearchDelegate is notified when a search UI reaches a decision.
type SearchDelegate interface {
	DeviceSelected(dev wearable.DiscoveredDevice)
	SearchCancelled()
}

// SearchUI shows devices as they are discovered.
type SearchUI interface {
	Element
	SetDelegate(d SearchDelegate)
	Add(dev wearable.DiscoveredDevice, state wearable.DeviceState)
	Update(dev wearable.DiscoveredDevice, state wearable.DeviceState)
	Remove(dev wearable.DiscoveredDevice)
	RemoveAll()
	// Selected returns the chosen device, if any.
	Selected() (wearable.DiscoveredDevice, bool)
}

// AlertIcon decorates an alert.
type AlertIcon int

const (
	AlertInfo AlertIcon = iota
	AlertWarning
	AlertError
)

// AlertAction is one button of an alert.
type AlertAction struct {
	Title   string
	Handler func()
}

// Alert describes a modal prompt.
type Alert struct {
	Icon    AlertIcon
	Title   string
	Message string
	Actions []AlertAction
}

// AlertUI is a constructed alert.
type AlertUI interface {
	Element
}

// InfoType distinguishes progress infos from plain messages.
type InfoType int

const (
	InfoMessage InfoType = iota
	InfoProgress
)

// Info describes a non-modal informational prompt.
type Info struct {
	Title       string
	Message     string
	Type        InfoType
	Cancellable bool
}

// InfoUI is a constructed informational prompt.
type InfoUI interface {
	Element
	Dismiss()
}

// ConnectUI is the strategy an SDK uses for every user-facing step of a
// connection attempt.
type ConnectUI interface {
	Start()
	Push(el Element)
	Pop()
	Restart()
	OpenURL(url string)
	Finish()

	NewSearchUI() SearchUI
	NewAlert(a Alert) AlertUI
	NewInfo(i Info) InfoUI
}

// Attempter is implemented by strategies that keep presentation state per
// connection attempt.
type Attempter interface {
	Attempt() ConnectUI
}

// ForAttempt returns the ConnectUI one connection attempt should drive.
// Stateless strategies are returned as is.
func ForAttempt(ui ConnectUI) ConnectUI {
	if a, ok := ui.(Attempter); ok {
		return a.Attempt()
	}
	return ui
}
