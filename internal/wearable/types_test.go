package wearable

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRSSI(t *testing.T) {
	tests := []struct {
		rssi     int
		expected SignalStrength
	}{
		{rssi: -30, expected: SignalFull},
		{rssi: -55, expected: SignalFull},
		{rssi: -56, expected: SignalStrong},
		{rssi: -67, expected: SignalStrong},
		{rssi: -68, expected: SignalModerate},
		{rssi: -80, expected: SignalModerate},
		{rssi: -81, expected: SignalWeak},
		{rssi: -127, expected: SignalWeak},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d dBm", tt.rssi), func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyRSSI(tt.rssi))
		})
	}
}

func TestSensorIntent(t *testing.T) {
	t.Run("default is rotation at 20ms", func(t *testing.T) {
		intent := DefaultSensorIntent()
		assert.Equal(t, []SensorType{SensorRotation}, intent.Sensors)
		assert.Equal(t, []SamplePeriod{SamplePeriod20ms}, intent.SamplePeriods)
		assert.NoError(t, intent.Validate())
		assert.Equal(t, "sensors=[rotation] periods=[20ms]", intent.String())
	})

	t.Run("constructor copies its inputs", func(t *testing.T) {
		sensors := []SensorType{SensorGyroscope}
		intent := NewSensorIntent(sensors, []SamplePeriod{SamplePeriod10ms})
		sensors[0] = SensorMagnetometer

		assert.Equal(t, SensorGyroscope, intent.Sensors[0], "intent MUST NOT alias the caller's slice")
	})

	t.Run("sensors without period are invalid", func(t *testing.T) {
		intent := NewSensorIntent([]SensorType{SensorRotation}, nil)
		assert.Error(t, intent.Validate())
	})

	t.Run("parse sensor names", func(t *testing.T) {
		s, err := ParseSensorType(" Game_Rotation ")
		require.NoError(t, err)
		assert.Equal(t, SensorGameRotation, s)

		_, err = ParseSensorType("barometer")
		assert.Error(t, err)
	})

	t.Run("parse sample periods", func(t *testing.T) {
		p, err := ParseSamplePeriod(160 * time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, SamplePeriod160ms, p)

		_, err = ParseSamplePeriod(15 * time.Millisecond)
		assert.Error(t, err)
	})
}

func TestDeviceHandle(t *testing.T) {
	assert.True(t, DeviceHandle{}.IsZero())

	dev := DiscoveredDevice{ID: "id-1", Address: "aa:bb:cc:dd:ee:ff", RSSI: -60}
	assert.Equal(t, "unknown", dev.DisplayName(), "unnamed devices MUST display as unknown")

	handle := dev.Handle()
	assert.False(t, handle.IsZero())
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", handle.Address)
}

func TestConnectionError(t *testing.T) {
	err := fmt.Errorf("dial: %w", &ConnectionError{State: BluetoothOff, Msg: "adapter powered down"})

	assert.True(t, errors.Is(err, ErrBluetoothOff), "ConnectionError MUST match by state")
	assert.False(t, errors.Is(err, ErrConnectionFailed))
	assert.True(t, IsConnectionState(err, BluetoothOff))
	assert.Equal(t, "bluetooth_off: bluetooth is turned off", ErrBluetoothOff.Error())
	assert.Equal(t, "not_connected", ErrNotConnected.Error())
}

func TestResultConstructors(t *testing.T) {
	assert.Equal(t, ResultSuccess, Success(3).Kind)
	assert.Equal(t, ErrTimeout, Failure[int](ErrTimeout).Err)
	assert.Equal(t, ResultCancelled, Cancelled[int]().Kind)
}
