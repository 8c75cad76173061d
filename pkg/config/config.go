package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/mitchellh/go-homedir"
	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "~/.config/wearlink/config.yaml"

// Config holds application configuration
type Config struct {
	LogLevel string        `yaml:"log_level" default:"info"`
	BLE      BLEConfig     `yaml:"ble"`
	Sensors  SensorsConfig `yaml:"sensors"`
	Home     HomeConfig    `yaml:"home"`
	Store    StoreConfig   `yaml:"store"`
}

// BLEConfig controls discovery and dialing.
type BLEConfig struct {
	ScanTimeout      time.Duration `yaml:"scan_timeout" default:"30s"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout" default:"10s"`
	ReconnectTimeout time.Duration `yaml:"reconnect_timeout" default:"15s"`
	// Services filters the interactive search; empty accepts every device.
	Services []string `yaml:"services"`
}

// SensorsConfig is the sensor intent requested on connect.
type SensorsConfig struct {
	Types        []string      `yaml:"types"`
	SamplePeriod time.Duration `yaml:"sample_period" default:"20ms"`
}

// HomeConfig holds home screen preferences.
type HomeConfig struct {
	ConnectToLast bool `yaml:"connect_to_last" default:"true"`
}

// StoreConfig locates the last-device record.
type StoreConfig struct {
	Path string `yaml:"path" default:"~/.config/wearlink/last_device.yaml"`
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	defaults.SetDefaults(&cfg.BLE)
	defaults.SetDefaults(&cfg.Sensors)
	defaults.SetDefaults(&cfg.Home)
	defaults.SetDefaults(&cfg.Store)
	if len(cfg.Sensors.Types) == 0 {
		cfg.Sensors.Types = []string{wearable.SensorRotation.String()}
	}
	return cfg
}

// Load reads the YAML file at path over the defaults. An empty path returns
// the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path %q: %w", path, err)
	}

	f, err := os.Open(expanded)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", expanded, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", expanded, err)
	}
	return cfg, nil
}

// LoadDefault loads DefaultPath when it exists and returns the defaults
// otherwise.
func LoadDefault() (*Config, error) {
	expanded, err := homedir.Expand(DefaultPath)
	if err != nil {
		return DefaultConfig(), nil
	}
	if _, err := os.Stat(expanded); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return Load(expanded)
}

// Validate checks values that YAML cannot constrain.
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log_level: %w", err)
	}
	if c.BLE.ScanTimeout <= 0 {
		return fmt.Errorf("ble.scan_timeout must be positive, got %s", c.BLE.ScanTimeout)
	}
	if c.BLE.ConnectTimeout <= 0 {
		return fmt.Errorf("ble.connect_timeout must be positive, got %s", c.BLE.ConnectTimeout)
	}
	if c.BLE.ReconnectTimeout <= 0 {
		return fmt.Errorf("ble.reconnect_timeout must be positive, got %s", c.BLE.ReconnectTimeout)
	}
	if _, err := c.SensorIntent(); err != nil {
		return fmt.Errorf("sensors: %w", err)
	}
	return nil
}

// Level returns the parsed log level, falling back to info.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

// NewLogger creates a configured logger instance
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.Level())

	// Use structured logging format
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	return logger
}

// SensorIntent converts the sensors section into a wearable.SensorIntent.
func (c *Config) SensorIntent() (wearable.SensorIntent, error) {
	sensors := make([]wearable.SensorType, 0, len(c.Sensors.Types))
	for _, name := range c.Sensors.Types {
		t, err := wearable.ParseSensorType(name)
		if err != nil {
			return wearable.SensorIntent{}, err
		}
		sensors = append(sensors, t)
	}

	var periods []wearable.SamplePeriod
	if len(sensors) > 0 {
		p, err := wearable.ParseSamplePeriod(c.Sensors.SamplePeriod)
		if err != nil {
			return wearable.SensorIntent{}, err
		}
		periods = []wearable.SamplePeriod{p}
	}

	return wearable.NewSensorIntent(sensors, periods), nil
}
