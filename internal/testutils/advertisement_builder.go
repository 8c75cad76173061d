package testutils

import (
	"strings"
)

// FakeAdvertisement is a scripted advertisement.
type FakeAdvertisement struct {
	Name        string
	Address     string
	Signal      int
	ServiceIDs  []string
	Unconnected bool
}

func (a *FakeAdvertisement) LocalName() string  { return a.Name }
func (a *FakeAdvertisement) RSSI() int          { return a.Signal }
func (a *FakeAdvertisement) Addr() string       { return a.Address }
func (a *FakeAdvertisement) Services() []string { return a.ServiceIDs }
func (a *FakeAdvertisement) Connectable() bool  { return !a.Unconnected }

// AdvertisementBuilder builds fake advertisements with a fluent API.
// Builders start connectable with an RSSI of -50 dBm.
type AdvertisementBuilder struct {
	adv FakeAdvertisement
}

// NewAdvertisementBuilder creates a builder with default values.
func NewAdvertisementBuilder() *AdvertisementBuilder {
	return &AdvertisementBuilder{adv: FakeAdvertisement{Signal: -50}}
}

// WithName sets the local name for the advertisement.
func (b *AdvertisementBuilder) WithName(name string) *AdvertisementBuilder {
	b.adv.Name = name
	return b
}

// WithAddress sets the device address for the advertisement.
func (b *AdvertisementBuilder) WithAddress(addr string) *AdvertisementBuilder {
	b.adv.Address = strings.ToLower(addr)
	return b
}

// WithRSSI sets the signal strength for the advertisement.
func (b *AdvertisementBuilder) WithRSSI(rssi int) *AdvertisementBuilder {
	b.adv.Signal = rssi
	return b
}

// WithServices adds service UUIDs in advertisement form (lowercase, no dashes).
func (b *AdvertisementBuilder) WithServices(uuids ...string) *AdvertisementBuilder {
	for _, u := range uuids {
		b.adv.ServiceIDs = append(b.adv.ServiceIDs, strings.ToLower(strings.ReplaceAll(u, "-", "")))
	}
	return b
}

// WithConnectable sets whether the advertisement is connectable.
func (b *AdvertisementBuilder) WithConnectable(connectable bool) *AdvertisementBuilder {
	b.adv.Unconnected = !connectable
	return b
}

// Build returns a copy of the configured advertisement.
func (b *AdvertisementBuilder) Build() *FakeAdvertisement {
	adv := b.adv
	adv.ServiceIDs = append([]string(nil), b.adv.ServiceIDs...)
	return &adv
}

// CreateAdvertisement is shorthand for a named advertisement at address/rssi.
func CreateAdvertisement(name, address string, rssi int) *FakeAdvertisement {
	return NewAdvertisementBuilder().WithName(name).WithAddress(address).WithRSSI(rssi).Build()
}
