package goble

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/cornelk/hashmap"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/mainloop"
	"github.com/srg/wearlink/internal/wearable"
)

// errNoSelection is returned when the scan window closes without a selection.
var errNoSelection = errors.New("no device selected")

// searchFilter decides whether an advertisement is a candidate.
type searchFilter func(adv Advertisement) bool

// addressFilter accepts only the given address.
func addressFilter(address string) searchFilter {
	return func(adv Advertisement) bool {
		return strings.EqualFold(adv.Addr(), address)
	}
}

// serviceFilter accepts advertisements carrying any of the normalized UUIDs.
// An empty list accepts everything.
func serviceFilter(uuids []string) searchFilter {
	return func(adv Advertisement) bool {
		if len(uuids) == 0 {
			return true
		}
		for _, s := range adv.Services() {
			for _, want := range uuids {
				if strings.EqualFold(s, want) {
					return true
				}
			}
		}
		return false
	}
}

// selection receives the search UI's decision.
type selection struct {
	once      sync.Once
	selected  chan wearable.DiscoveredDevice
	cancelled chan struct{}
}

func newSelection() *selection {
	return &selection{
		selected:  make(chan wearable.DiscoveredDevice, 1),
		cancelled: make(chan struct{}),
	}
}

func (s *selection) DeviceSelected(dev wearable.DiscoveredDevice) {
	s.once.Do(func() { s.selected <- dev })
}

func (s *selection) SearchCancelled() {
	s.once.Do(func() { close(s.cancelled) })
}

// search scans until the search UI selects a device, the user cancels, the
// window elapses or ctx is done. Non-connectable advertisements are skipped. A
// zero window scans until ctx is done.
func search(ctx context.Context, adapter Adapter, ui connectui.SearchUI, accept searchFilter,
	window time.Duration, logger *logrus.Logger) (wearable.DiscoveredDevice, error) {
	sel := newSelection()
	ui.SetDelegate(sel)

	scanCtx, stop := context.WithCancel(ctx)
	defer stop()
	if window > 0 {
		var cancel context.CancelFunc
		scanCtx, cancel = context.WithTimeout(scanCtx, window)
		defer cancel()
	}

	seen := hashmap.New[string, wearable.DiscoveredDevice]()
	handle := func(adv Advertisement) {
		if !adv.Connectable() || !accept(adv) {
			return
		}
		dev := wearable.DiscoveredDevice{
			ID:      adv.Addr(),
			Name:    adv.LocalName(),
			Address: adv.Addr(),
			RSSI:    adv.RSSI(),
		}
		state := wearable.Found(wearable.ClassifyRSSI(dev.RSSI))

		prev, existing := seen.Get(dev.Address)
		if existing && dev.Name == "" {
			dev.Name = prev.Name
		}
		seen.Set(dev.Address, dev)

		if existing {
			ui.Update(dev, state)
			return
		}
		logger.WithFields(logrus.Fields{
			"device":   dev.DisplayName(),
			"address":  dev.Address,
			"rssi":     dev.RSSI,
			"strength": state.Strength.String(),
		}).Debug("Discovered device")
		ui.Add(dev, state)
	}

	scanErr := make(chan error, 1)
	mainloop.Go(scanCtx, "ble-scan", func(ctx context.Context) {
		scanErr <- adapter.Scan(ctx, true, handle)
	})

	finishScan := func() {
		stop()
		<-scanErr
	}

	select {
	case dev := <-sel.selected:
		finishScan()
		return dev, nil
	case <-sel.cancelled:
		finishScan()
		return wearable.DiscoveredDevice{}, context.Canceled
	case err := <-scanErr:
		if ctx.Err() != nil {
			return wearable.DiscoveredDevice{}, ctx.Err()
		}
		select {
		case dev := <-sel.selected:
			return dev, nil
		default:
		}
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return wearable.DiscoveredDevice{}, err
		}
		logger.WithField("devices", seen.Len()).Debug("Scan window elapsed without a selection")
		return wearable.DiscoveredDevice{}, errNoSelection
	case <-ctx.Done():
		finishScan()
		return wearable.DiscoveredDevice{}, ctx.Err()
	}
}
