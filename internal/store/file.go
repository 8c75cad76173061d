package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/facebookgo/atomicfile"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the last device is kept unless configured otherwise.
const DefaultPath = "~/.config/wearlink/last_device.yaml"

// record is the on-disk layout.
type record struct {
	Device      wearable.DeviceHandle `yaml:"device"`
	ConnectedAt time.Time             `yaml:"connected_at"`
}

// File is a Store backed by a YAML file, replaced atomically on every write.
type File struct {
	path   string
	logger *logrus.Logger
	now    func() time.Time
	mu     sync.Mutex
}

// NewFile creates a file store. A leading ~ in path is expanded.
func NewFile(path string, logger *logrus.Logger) (*File, error) {
	if logger == nil {
		logger = logrus.New()
	}
	if path == "" {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to expand store path %q: %w", path, err)
	}
	return &File{path: expanded, logger: logger, now: time.Now}, nil
}

// Path returns the expanded file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) MostRecent() (wearable.DeviceHandle, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return wearable.DeviceHandle{}, false, nil
	}
	if err != nil {
		return wearable.DeviceHandle{}, false, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var rec record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return wearable.DeviceHandle{}, false, fmt.Errorf("failed to parse %s: %w", f.path, err)
	}
	if rec.Device.IsZero() {
		return wearable.DeviceHandle{}, false, nil
	}
	return rec.Device, true, nil
}

func (f *File) Remember(dev wearable.DeviceHandle) error {
	if dev.IsZero() {
		return fmt.Errorf("cannot remember a device without an address")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	out, err := atomicfile.New(f.path, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", f.path, err)
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(record{Device: dev, ConnectedAt: f.now().UTC()}); err != nil {
		_ = out.Abort()
		return fmt.Errorf("failed to encode device: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = out.Abort()
		return fmt.Errorf("failed to encode device: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", f.path, err)
	}

	f.logger.WithFields(logrus.Fields{
		"device":  dev.DisplayName(),
		"address": dev.Address,
		"path":    f.path,
	}).Debug("Remembered most recent device")
	return nil
}

func (f *File) Forget() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", f.path, err)
	}
	return nil
}
