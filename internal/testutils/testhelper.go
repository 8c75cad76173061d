package testutils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/srg/wearlink/internal/wearable"
)

type TestHelper struct {
	T      *testing.T
	Logger *logrus.Logger
}

// NewTestHelper creates a test helper with a debug logger.
func NewTestHelper(t *testing.T) *TestHelper {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel) // enable debug logs to track execution flow
	return &TestHelper{
		T:      t,
		Logger: logger,
	}
}

// NewCapturedLogger returns a logger that writes nowhere and a hook holding
// every entry, at debug level.
func NewCapturedLogger() (*logrus.Logger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// Messages returns the messages recorded by hook, in order.
func Messages(hook *test.Hook) []string {
	entries := hook.AllEntries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

// Device returns a remembered-device handle for tests.
func Device(name, address string) wearable.DeviceHandle {
	return wearable.DeviceHandle{ID: address, Name: name, Address: address}
}
