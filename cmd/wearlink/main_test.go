package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/srg/wearlink/internal/wearable"
	"github.com/stretchr/testify/assert"
)

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in, expected string
	}{
		{"1.2.0", "v1.2.0"},
		{"v1.2.0", "v1.2.0"},
		{"dev", "dev"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatVersion(tt.in), "formatVersion(%q)", tt.in)
	}
}

func TestFormatUserError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"bluetooth off", wearable.ErrBluetoothOff, "Bluetooth is turned off, turn it on and try again"},
		{
			"wrapped timeout keeps detail",
			fmt.Errorf("%w: Band did not reappear within 15s", wearable.ErrTimeout),
			"the wearable did not respond in time, make sure it is nearby and awake (timeout: Band did not reappear within 15s)",
		},
		{
			"connection failure matched by state",
			&wearable.ConnectionError{State: wearable.ConnectionFailed, Msg: "link refused"},
			"could not connect to the wearable (connection_failed: link refused)",
		},
		{"no recent device", ErrNoRecentDevice, "no recent connected device, run 'wearlink connect' first"},
		{"unknown", errors.New("boom"), "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatUserError(tt.err))
		})
	}
}
