// Package audioroute logs changes of the audio output route. It observes only:
// nothing in the connection flow depends on it.
package audioroute

import "fmt"

// Reason is why the audio route changed. Values mirror the platform codes.
type Reason uint

const (
	ReasonUnknown                    Reason = 0
	ReasonNewDeviceAvailable         Reason = 1
	ReasonOldDeviceUnavailable       Reason = 2
	ReasonCategoryChange             Reason = 3
	ReasonOverride                   Reason = 4
	ReasonWakeFromSleep              Reason = 6
	ReasonNoSuitableRouteForCategory Reason = 7
	ReasonRouteConfigurationChange   Reason = 8
)

func (r Reason) String() string {
	switch r {
	case ReasonUnknown:
		return "unknown"
	case ReasonNewDeviceAvailable:
		return "new device available"
	case ReasonOldDeviceUnavailable:
		return "old device unavailable"
	case ReasonCategoryChange:
		return "category change"
	case ReasonOverride:
		return "override"
	case ReasonWakeFromSleep:
		return "wake from sleep"
	case ReasonNoSuitableRouteForCategory:
		return "no suitable route for category"
	case ReasonRouteConfigurationChange:
		return "route configuration change"
	default:
		return "unknown - (WARNING) new enum value added"
	}
}

// Output is one audio output port.
type Output struct {
	Name string
	Type string
}

func (o Output) String() string {
	return fmt.Sprintf("%s (%s)", o.Name, o.Type)
}

// RouteChange describes one route transition. Previous and Current list
// outputs in route order; either may be empty.
type RouteChange struct {
	Reason   Reason
	Previous []Output
	Current  []Output
}

// Source delivers route changes. The channel is closed when the source stops.
type Source interface {
	Events() <-chan RouteChange
}

// ChanSource is a Source backed by a caller-owned channel.
type ChanSource chan RouteChange

func (c ChanSource) Events() <-chan RouteChange { return c }
