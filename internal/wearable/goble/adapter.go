package goble

import (
	"context"
	"strings"

	"github.com/go-ble/ble"
)

// Advertisement is the subset of a BLE advertisement the search needs.
type Advertisement interface {
	LocalName() string
	RSSI() int
	Addr() string
	Services() []string
	Connectable() bool
}

// Link is an established BLE connection.
type Link interface {
	Addr() string
	CancelConnection() error
	Disconnected() <-chan struct{}
}

// Adapter scans for and dials BLE peripherals.
type Adapter interface {
	Scan(ctx context.Context, allowDup bool, handler func(Advertisement)) error
	Dial(ctx context.Context, address string) (Link, error)
}

// DeviceFactory creates the platform ble.Device (can be overridden in tests)
var DeviceFactory = newPlatformDevice

// AdapterFactory creates the Adapter used by the SDK (can be overridden in tests)
var AdapterFactory = func() (Adapter, error) {
	dev, err := DeviceFactory()
	if err != nil {
		return nil, NormalizeError(err)
	}
	return &bleAdapter{dev: dev}, nil
}

// bleAdapter wraps ble.Device to implement the Adapter interface
type bleAdapter struct {
	dev ble.Device
}

// Scan wraps the raw ble.Device.Scan to convert ble.Advertisement to Advertisement
func (a *bleAdapter) Scan(ctx context.Context, allowDup bool, handler func(Advertisement)) error {
	err := a.dev.Scan(ctx, allowDup, func(adv ble.Advertisement) {
		handler(&bleAdvertisement{adv: adv})
	})
	return NormalizeError(err)
}

func (a *bleAdapter) Dial(ctx context.Context, address string) (Link, error) {
	client, err := a.dev.Dial(ctx, ble.NewAddr(address))
	if err != nil {
		return nil, NormalizeError(err)
	}
	return &bleLink{client: client}, nil
}

// bleAdvertisement wraps ble.Advertisement
type bleAdvertisement struct {
	adv ble.Advertisement
}

func (a *bleAdvertisement) LocalName() string { return a.adv.LocalName() }
func (a *bleAdvertisement) RSSI() int         { return a.adv.RSSI() }
func (a *bleAdvertisement) Addr() string      { return a.adv.Addr().String() }
func (a *bleAdvertisement) Connectable() bool { return a.adv.Connectable() }

func (a *bleAdvertisement) Services() []string {
	uuids := a.adv.Services()
	result := make([]string, len(uuids))
	for i, u := range uuids {
		result[i] = u.String()
	}
	return result
}

// bleLink wraps ble.Client
type bleLink struct {
	client ble.Client
}

func (l *bleLink) Addr() string                  { return l.client.Addr().String() }
func (l *bleLink) CancelConnection() error       { return l.client.CancelConnection() }
func (l *bleLink) Disconnected() <-chan struct{} { return l.client.Disconnected() }

// NormalizeServiceUUID converts a UUID in any accepted notation to the form
// used by advertisements: lowercase hex, no dashes.
func NormalizeServiceUUID(s string) (string, error) {
	u, err := ble.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
