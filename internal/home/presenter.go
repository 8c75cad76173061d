package home

import (
	"github.com/srg/wearlink/internal/wearable"
)

// StatusTone distinguishes status messages visually.
type StatusTone int

const (
	ToneNormal StatusTone = iota
	TonePending
)

// Presenter renders home screen state. All methods are called on the main loop.
type Presenter interface {
	// SetStatus replaces the status line.
	SetStatus(text string, tone StatusTone)
	// ShowActivity toggles the busy indicator of an interactive connect.
	ShowActivity(active bool)
	// ShowSession hands an established session to the detail display. The
	// presenter owns the session from then on.
	ShowSession(sess wearable.Session)
	// ShowError presents a blocking alert describing err.
	ShowError(err error)
}
