package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Second, cfg.BLE.ScanTimeout)
	assert.Equal(t, 10*time.Second, cfg.BLE.ConnectTimeout)
	assert.Equal(t, 15*time.Second, cfg.BLE.ReconnectTimeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Sensors.SamplePeriod)
	assert.Equal(t, []string{"rotation"}, cfg.Sensors.Types)
	assert.True(t, cfg.Home.ConnectToLast)
	assert.Equal(t, "~/.config/wearlink/last_device.yaml", cfg.Store.Path)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
		expected logrus.Level
	}{
		{name: "creates logger with debug level", logLevel: "debug", expected: logrus.DebugLevel},
		{name: "creates logger with info level", logLevel: "info", expected: logrus.InfoLevel},
		{name: "creates logger with warn level", logLevel: "warn", expected: logrus.WarnLevel},
		{name: "creates logger with error level", logLevel: "error", expected: logrus.ErrorLevel},
		{name: "falls back to info on garbage", logLevel: "loud", expected: logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.logLevel}

			logger := cfg.NewLogger()

			assert.NotNil(t, logger)
			assert.Equal(t, tt.expected, logger.GetLevel())

			// Verify formatter is set correctly
			formatter, ok := logger.Formatter.(*logrus.TextFormatter)
			assert.True(t, ok)
			assert.True(t, formatter.FullTimestamp)
			assert.Equal(t, time.RFC3339, formatter.TimestampFormat)
		})
	}
}

func TestConfig_SensorIntent(t *testing.T) {
	cfg := DefaultConfig()

	intent, err := cfg.SensorIntent()
	require.NoError(t, err)
	assert.Equal(t, wearable.DefaultSensorIntent(), intent, "default config MUST request rotation at 20ms")

	cfg.Sensors.Types = nil
	intent, err = cfg.SensorIntent()
	require.NoError(t, err)
	assert.Empty(t, intent.Sensors)
	assert.Empty(t, intent.SamplePeriods, "no sensors MUST mean no sample period")
}

func TestLoad(t *testing.T) {
	t.Run("empty path returns defaults", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("overlays file values on defaults", func(t *testing.T) {
		path := writeConfig(t, `
log_level: debug
ble:
  reconnect_timeout: 5s
  services: ["180d"]
sensors:
  types: [gyroscope, accelerometer]
  sample_period: 10ms
home:
  connect_to_last: false
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 5*time.Second, cfg.BLE.ReconnectTimeout)
		assert.Equal(t, 30*time.Second, cfg.BLE.ScanTimeout, "unset values MUST keep their defaults")
		assert.Equal(t, []string{"180d"}, cfg.BLE.Services)
		assert.False(t, cfg.Home.ConnectToLast, "explicit false MUST override the true default")

		intent, err := cfg.SensorIntent()
		require.NoError(t, err)
		assert.Equal(t, []wearable.SensorType{wearable.SensorGyroscope, wearable.SensorAccelerometer}, intent.Sensors)
		assert.Equal(t, []wearable.SamplePeriod{wearable.SamplePeriod10ms}, intent.SamplePeriods)
	})

	t.Run("empty file returns defaults", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, ""))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("missing file fails", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("unknown keys fail", func(t *testing.T) {
		_, err := Load(writeConfig(t, "colour: blue\n"))
		assert.Error(t, err)
	})
}

func TestConfig_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		valid  bool
	}{
		{name: "defaults are valid", mutate: func(c *Config) {}, valid: true},
		{name: "unknown log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, valid: false},
		{name: "zero scan timeout", mutate: func(c *Config) { c.BLE.ScanTimeout = 0 }, valid: false},
		{name: "negative connect timeout", mutate: func(c *Config) { c.BLE.ConnectTimeout = -time.Second }, valid: false},
		{name: "zero reconnect timeout", mutate: func(c *Config) { c.BLE.ReconnectTimeout = 0 }, valid: false},
		{name: "unknown sensor", mutate: func(c *Config) { c.Sensors.Types = []string{"barometer"} }, valid: false},
		{name: "unsupported sample period", mutate: func(c *Config) { c.Sensors.SamplePeriod = 7 * time.Millisecond }, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestConfig_ZeroValues(t *testing.T) {
	cfg := &Config{}

	// Test that zero values don't cause panics
	logger := cfg.NewLogger()
	assert.NotNil(t, logger)
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	assert.Error(t, cfg.Validate(), "zero config MUST NOT validate")
}

func BenchmarkDefaultConfig(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_ = DefaultConfig()
	}
}
