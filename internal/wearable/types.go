package wearable

import (
	"fmt"
	"strings"
	"time"
)

// DeviceHandle identifies a previously paired physical device.
type DeviceHandle struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Address string `yaml:"address" json:"address"`
}

// IsZero reports whether the handle carries no address.
func (d DeviceHandle) IsZero() bool {
	return strings.TrimSpace(d.Address) == ""
}

// DisplayName returns the name or, if unknown, the address.
func (d DeviceHandle) DisplayName() string {
	if d.Name == "" {
		return d.Address
	}
	return d.Name
}

func (d DeviceHandle) String() string {
	return fmt.Sprintf("%s (%s)", d.DisplayName(), d.Address)
}

// SensorType enumerates the sensors a wearable can stream.
type SensorType int

const (
	SensorAccelerometer SensorType = iota
	SensorGyroscope
	SensorRotation
	SensorGameRotation
	SensorOrientation
	SensorMagnetometer
)

var sensorNames = map[SensorType]string{
	SensorAccelerometer: "accelerometer",
	SensorGyroscope:     "gyroscope",
	SensorRotation:      "rotation",
	SensorGameRotation:  "game_rotation",
	SensorOrientation:   "orientation",
	SensorMagnetometer:  "magnetometer",
}

func (s SensorType) String() string {
	if name, ok := sensorNames[s]; ok {
		return name
	}
	return fmt.Sprintf("sensor(%d)", int(s))
}

// ParseSensorType maps a sensor name to its SensorType.
func ParseSensorType(name string) (SensorType, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for t, s := range sensorNames {
		if s == n {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor %q", name)
}

// SamplePeriod is a supported sensor sampling period.
type SamplePeriod time.Duration

const (
	SamplePeriod320ms = SamplePeriod(320 * time.Millisecond)
	SamplePeriod160ms = SamplePeriod(160 * time.Millisecond)
	SamplePeriod80ms  = SamplePeriod(80 * time.Millisecond)
	SamplePeriod40ms  = SamplePeriod(40 * time.Millisecond)
	SamplePeriod20ms  = SamplePeriod(20 * time.Millisecond)
	SamplePeriod10ms  = SamplePeriod(10 * time.Millisecond)
	SamplePeriod5ms   = SamplePeriod(5 * time.Millisecond)
)

var supportedPeriods = []SamplePeriod{
	SamplePeriod320ms, SamplePeriod160ms, SamplePeriod80ms, SamplePeriod40ms,
	SamplePeriod20ms, SamplePeriod10ms, SamplePeriod5ms,
}

// ParseSamplePeriod converts a duration into a supported SamplePeriod.
func ParseSamplePeriod(d time.Duration) (SamplePeriod, error) {
	for _, p := range supportedPeriods {
		if time.Duration(p) == d {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unsupported sample period %s", d)
}

func (p SamplePeriod) String() string {
	return time.Duration(p).String()
}

// SensorIntent declares which sensors to enable and at what rate.
// It is passed by value into every connection attempt.
type SensorIntent struct {
	Sensors       []SensorType
	SamplePeriods []SamplePeriod
}

// NewSensorIntent builds an intent; the slices are copied.
func NewSensorIntent(sensors []SensorType, periods []SamplePeriod) SensorIntent {
	return SensorIntent{
		Sensors:       append([]SensorType(nil), sensors...),
		SamplePeriods: append([]SamplePeriod(nil), periods...),
	}
}

// DefaultSensorIntent is one rotation sensor sampled every 20ms.
func DefaultSensorIntent() SensorIntent {
	return NewSensorIntent([]SensorType{SensorRotation}, []SamplePeriod{SamplePeriod20ms})
}

// Validate rejects an intent that enables sensors without a sample period.
func (i SensorIntent) Validate() error {
	if len(i.Sensors) > 0 && len(i.SamplePeriods) == 0 {
		return fmt.Errorf("sensor intent enables %d sensor(s) but no sample period", len(i.Sensors))
	}
	return nil
}

func (i SensorIntent) String() string {
	sensors := make([]string, len(i.Sensors))
	for n, s := range i.Sensors {
		sensors[n] = s.String()
	}
	periods := make([]string, len(i.SamplePeriods))
	for n, p := range i.SamplePeriods {
		periods[n] = p.String()
	}
	return fmt.Sprintf("sensors=[%s] periods=[%s]", strings.Join(sensors, ","), strings.Join(periods, ","))
}

// GestureType enumerates the gestures a wearable can report.
type GestureType int

const (
	GestureDoubleTap GestureType = iota
	GestureHeadNod
	GestureHeadShake
)

func (g GestureType) String() string {
	switch g {
	case GestureDoubleTap:
		return "double_tap"
	case GestureHeadNod:
		return "head_nod"
	case GestureHeadShake:
		return "head_shake"
	default:
		return fmt.Sprintf("gesture(%d)", int(g))
	}
}

// GestureIntent declares which gestures to enable.
type GestureIntent struct {
	Gestures []GestureType
}

// SignalStrength is a coarse classification of a discovered device's RSSI.
type SignalStrength int

const (
	SignalWeak SignalStrength = iota
	SignalModerate
	SignalStrong
	SignalFull
)

// RSSI thresholds, in dBm, for ClassifyRSSI.
const (
	FullRSSI     = -55
	StrongRSSI   = -67
	ModerateRSSI = -80
)

// ClassifyRSSI maps a raw RSSI reading to a SignalStrength.
func ClassifyRSSI(rssi int) SignalStrength {
	switch {
	case rssi >= FullRSSI:
		return SignalFull
	case rssi >= StrongRSSI:
		return SignalStrong
	case rssi >= ModerateRSSI:
		return SignalModerate
	default:
		return SignalWeak
	}
}

func (s SignalStrength) String() string {
	switch s {
	case SignalFull:
		return "full"
	case SignalStrong:
		return "strong"
	case SignalModerate:
		return "moderate"
	default:
		return "weak"
	}
}

// DeviceStateKind discriminates DeviceState.
type DeviceStateKind int

const (
	StateFound DeviceStateKind = iota
	StateConnecting
	StateUnavailable
)

// DeviceState is the search-time state of a discovered device.
type DeviceState struct {
	Kind     DeviceStateKind
	Strength SignalStrength // valid when Kind == StateFound
}

// Found returns a Found state with the given strength.
func Found(strength SignalStrength) DeviceState {
	return DeviceState{Kind: StateFound, Strength: strength}
}

func (s DeviceState) String() string {
	switch s.Kind {
	case StateFound:
		return "found(" + s.Strength.String() + ")"
	case StateConnecting:
		return "connecting"
	default:
		return "unavailable"
	}
}

// DiscoveredDevice is a device seen during a search.
type DiscoveredDevice struct {
	ID      string
	Name    string
	Address string
	RSSI    int
}

// DisplayName returns the advertised name or "unknown".
func (d DiscoveredDevice) DisplayName() string {
	if d.Name == "" {
		return "unknown"
	}
	return d.Name
}

// Handle converts the discovered device into a persistable DeviceHandle.
func (d DiscoveredDevice) Handle() DeviceHandle {
	return DeviceHandle{ID: d.ID, Name: d.Name, Address: d.Address}
}

// Session is an established logical connection to a device.
type Session interface {
	Device() DeviceHandle
	SensorIntent() SensorIntent
	Simulated() bool
	Close() error
}
