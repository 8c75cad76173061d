package audioroute

import (
	"context"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/mainloop"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	bluezService           = "org.bluez"
	transportInterface     = "org.bluez.MediaTransport1"
	deviceInterface        = "org.bluez.Device1"
	propertiesInterface    = "org.freedesktop.DBus.Properties"
	objectManagerInterface = "org.freedesktop.DBus.ObjectManager"

	signalInterfacesAdded   = objectManagerInterface + ".InterfacesAdded"
	signalInterfacesRemoved = objectManagerInterface + ".InterfacesRemoved"
	signalPropertiesChanged = propertiesInterface + ".PropertiesChanged"
)

// Output types reported for BlueZ transports.
const (
	TypeSpeaker       = "Speaker"
	TypeBluetoothA2DP = "BluetoothA2DPOutput"
	TypeBluetoothHFP  = "BluetoothHFP"
	TypeBluetoothLE   = "BluetoothLE"
)

// Speaker is the route when no Bluetooth transport exists.
var Speaker = Output{Name: "Speaker", Type: TypeSpeaker}

var matchRules = []string{
	"type='signal',sender='org.bluez',interface='org.freedesktop.DBus.ObjectManager',member='InterfacesAdded'",
	"type='signal',sender='org.bluez',interface='org.freedesktop.DBus.ObjectManager',member='InterfacesRemoved'",
	"type='signal',sender='org.bluez',interface='org.freedesktop.DBus.Properties',member='PropertiesChanged',arg0='org.bluez.MediaTransport1'",
}

// profileTypes maps transport profile UUIDs to output types.
var profileTypes = map[string]string{
	"0000110a-0000-1000-8000-00805f9b34fb": TypeBluetoothA2DP, // A2DP source
	"0000110b-0000-1000-8000-00805f9b34fb": TypeBluetoothA2DP, // A2DP sink
	"00001108-0000-1000-8000-00805f9b34fb": TypeBluetoothHFP,  // HSP
	"00001112-0000-1000-8000-00805f9b34fb": TypeBluetoothHFP,  // HSP AG
	"0000111e-0000-1000-8000-00805f9b34fb": TypeBluetoothHFP,  // HFP
	"0000111f-0000-1000-8000-00805f9b34fb": TypeBluetoothHFP,  // HFP AG
	"00001850-0000-1000-8000-00805f9b34fb": TypeBluetoothLE,   // published audio capabilities
	"0000184e-0000-1000-8000-00805f9b34fb": TypeBluetoothLE,   // audio stream control
}

type transport struct {
	output Output
	state  string
}

// tracker turns BlueZ transport signals into route changes. Transports are
// kept in appearance order; the newest one is the first output.
type tracker struct {
	transports *orderedmap.OrderedMap[dbus.ObjectPath, transport]
	deviceName func(dbus.ObjectPath) string
}

func newTracker(deviceName func(dbus.ObjectPath) string) *tracker {
	if deviceName == nil {
		deviceName = addressFromPath
	}
	return &tracker{
		transports: orderedmap.New[dbus.ObjectPath, transport](),
		deviceName: deviceName,
	}
}

// outputs returns the current route, newest transport first.
func (t *tracker) outputs() []Output {
	if t.transports.Len() == 0 {
		return []Output{Speaker}
	}
	out := make([]Output, 0, t.transports.Len())
	for pair := t.transports.Newest(); pair != nil; pair = pair.Prev() {
		out = append(out, pair.Value.output)
	}
	return out
}

func (t *tracker) add(path dbus.ObjectPath, props map[string]dbus.Variant) (RouteChange, bool) {
	if _, exists := t.transports.Get(path); exists {
		return RouteChange{}, false
	}

	device := path
	if v, ok := props["Device"]; ok {
		if p, ok := v.Value().(dbus.ObjectPath); ok && p != "" {
			device = p
		}
	}
	kind := TypeBluetoothA2DP
	if v, ok := props["UUID"]; ok {
		if uuid, ok := v.Value().(string); ok {
			if k, known := profileTypes[strings.ToLower(uuid)]; known {
				kind = k
			}
		}
	}

	previous := t.outputs()
	t.transports.Set(path, transport{
		output: Output{Name: t.deviceName(device), Type: kind},
		state:  stringProperty(props, "State"),
	})
	return RouteChange{Reason: ReasonNewDeviceAvailable, Previous: previous, Current: t.outputs()}, true
}

func (t *tracker) remove(path dbus.ObjectPath) (RouteChange, bool) {
	if _, exists := t.transports.Get(path); !exists {
		return RouteChange{}, false
	}
	previous := t.outputs()
	t.transports.Delete(path)
	return RouteChange{Reason: ReasonOldDeviceUnavailable, Previous: previous, Current: t.outputs()}, true
}

func (t *tracker) changed(path dbus.ObjectPath, props map[string]dbus.Variant) (RouteChange, bool) {
	tr, exists := t.transports.Get(path)
	if !exists {
		return RouteChange{}, false
	}
	state, ok := props["State"]
	if !ok {
		return RouteChange{}, false
	}
	next, _ := state.Value().(string)
	if next == tr.state {
		return RouteChange{}, false
	}

	previous := t.outputs()
	tr.state = next
	t.transports.Set(path, tr)
	return RouteChange{Reason: ReasonRouteConfigurationChange, Previous: previous, Current: t.outputs()}, true
}

// handle dispatches one D-Bus signal. Signals unrelated to media transports
// are ignored.
func (t *tracker) handle(sig *dbus.Signal) (RouteChange, bool) {
	if sig == nil {
		return RouteChange{}, false
	}

	switch sig.Name {
	case signalInterfacesAdded:
		if len(sig.Body) < 2 {
			return RouteChange{}, false
		}
		path, _ := sig.Body[0].(dbus.ObjectPath)
		ifaces, _ := sig.Body[1].(map[string]map[string]dbus.Variant)
		props, ok := ifaces[transportInterface]
		if !ok {
			return RouteChange{}, false
		}
		return t.add(path, props)

	case signalInterfacesRemoved:
		if len(sig.Body) < 2 {
			return RouteChange{}, false
		}
		path, _ := sig.Body[0].(dbus.ObjectPath)
		ifaces, _ := sig.Body[1].([]string)
		for _, iface := range ifaces {
			if iface == transportInterface {
				return t.remove(path)
			}
		}
		return RouteChange{}, false

	case signalPropertiesChanged:
		if len(sig.Body) < 2 {
			return RouteChange{}, false
		}
		if iface, _ := sig.Body[0].(string); iface != transportInterface {
			return RouteChange{}, false
		}
		props, _ := sig.Body[1].(map[string]dbus.Variant)
		return t.changed(sig.Path, props)
	}
	return RouteChange{}, false
}

// BlueZSource reports route changes caused by Bluetooth audio transports
// appearing, disappearing or changing state on the system bus.
type BlueZSource struct {
	conn    *dbus.Conn
	tracker *tracker
	events  chan RouteChange
	logger  *logrus.Logger
}

// OpenBlueZ connects to the system bus and starts watching media transports
// until ctx is done. The Events channel is closed afterwards.
func OpenBlueZ(ctx context.Context, logger *logrus.Logger) (*BlueZSource, error) {
	if logger == nil {
		logger = logrus.New()
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to system bus: %w", err)
	}

	s := &BlueZSource{
		conn:   conn,
		events: make(chan RouteChange, 16),
		logger: logger,
	}
	s.tracker = newTracker(s.deviceAlias)

	for _, rule := range matchRules {
		if call := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule); call.Err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to add match rule: %w", call.Err)
		}
	}

	if err := s.seed(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	mainloop.Go(ctx, "bluez-route-watch", func(ctx context.Context) {
		s.run(ctx, signals)
	})

	logger.WithField("outputs", len(s.tracker.outputs())).Debug("Watching BlueZ media transports")
	return s, nil
}

func (s *BlueZSource) Events() <-chan RouteChange { return s.events }

// seed loads transports that exist before the watch starts. They do not
// produce events.
func (s *BlueZSource) seed() error {
	var objects map[dbus.ObjectPath]map[string]map[string]dbus.Variant
	err := s.conn.Object(bluezService, "/").
		Call(objectManagerInterface+".GetManagedObjects", 0).
		Store(&objects)
	if err != nil {
		return fmt.Errorf("failed to list BlueZ objects: %w", err)
	}
	for path, ifaces := range objects {
		if props, ok := ifaces[transportInterface]; ok {
			s.tracker.add(path, props)
		}
	}
	return nil
}

func (s *BlueZSource) run(ctx context.Context, signals chan *dbus.Signal) {
	defer func() {
		s.conn.RemoveSignal(signals)
		for _, rule := range matchRules {
			s.conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)
		}
		if err := s.conn.Close(); err != nil {
			s.logger.WithError(err).Debug("Failed to close system bus connection")
		}
		close(s.events)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-signals:
			if !ok {
				return
			}
			change, ok := s.tracker.handle(sig)
			if !ok {
				continue
			}
			select {
			case s.events <- change:
			case <-ctx.Done():
				return
			}
		}
	}
}

// deviceAlias resolves a device's user-visible name, falling back to its
// address.
func (s *BlueZSource) deviceAlias(device dbus.ObjectPath) string {
	v, err := s.conn.Object(bluezService, device).GetProperty(deviceInterface + ".Alias")
	if err == nil {
		if alias, ok := v.Value().(string); ok && alias != "" {
			return alias
		}
	}
	return addressFromPath(device)
}

// addressFromPath extracts AA:BB:CC:DD:EE:FF from a BlueZ object path such as
// /org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF/sep1/fd0.
func addressFromPath(path dbus.ObjectPath) string {
	for _, part := range strings.Split(string(path), "/") {
		if strings.HasPrefix(part, "dev_") {
			return strings.ReplaceAll(strings.TrimPrefix(part, "dev_"), "_", ":")
		}
	}
	return string(path)
}

func stringProperty(props map[string]dbus.Variant, name string) string {
	v, ok := props[name]
	if !ok {
		return ""
	}
	s, _ := v.Value().(string)
	return s
}
