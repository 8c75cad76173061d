package main

import (
	"errors"

	"github.com/srg/wearlink/internal/wearable"
)

// Command-level errors
var (
	// ErrNoRecentDevice indicates a reconnect was requested before any device
	// was ever connected (or after it was forgotten).
	ErrNoRecentDevice = errors.New("no recent connected device")
)

// userMessages maps SDK and command errors to the text shown after "ERROR:".
var userMessages = []struct {
	err error
	msg string
}{
	{wearable.ErrBluetoothOff, "Bluetooth is turned off, turn it on and try again"},
	{wearable.ErrTimeout, "the wearable did not respond in time, make sure it is nearby and awake"},
	{wearable.ErrDeviceNotFound, "no wearable was selected"},
	{wearable.ErrConnectionFailed, "could not connect to the wearable"},
	{wearable.ErrNotConnected, "the wearable is not connected"},
	{ErrNoRecentDevice, "no recent connected device, run 'wearlink connect' first"},
}

// FormatUserError renders err for the terminal. Known failures get a short
// explanation followed by the underlying error; anything else is printed as is.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range userMessages {
		if errors.Is(err, m.err) {
			if err.Error() == m.err.Error() {
				return m.msg
			}
			return m.msg + " (" + err.Error() + ")"
		}
	}
	return err.Error()
}
