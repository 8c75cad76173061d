package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/srg/wearlink/internal/store"
	"github.com/srg/wearlink/internal/testutils"
	"github.com/srg/wearlink/internal/wearable"
)

// Test device addresses for consistent fake device identification
const (
	TestDeviceAddress1 = "aa:bb:cc:dd:ee:01"
	TestDeviceAddress2 = "aa:bb:cc:dd:ee:02"
)

// testConfig keeps command tests fast and quiet.
const testConfig = `log_level: error
ble:
  scan_timeout: 300ms
  connect_timeout: 300ms
  reconnect_timeout: 2s
`

// CommandTestSuite extends MockAdapterSuite with command testing utilities.
// Every command runs against a temporary config and store.
type CommandTestSuite struct {
	testutils.MockAdapterSuite
	ConfigPath string
	StorePath  string
}

func (s *CommandTestSuite) SetupTest() {
	s.MockAdapterSuite.SetupTest()

	dir := s.T().TempDir()
	s.ConfigPath = filepath.Join(dir, "config.yaml")
	s.StorePath = filepath.Join(dir, "last_device.yaml")
	s.Require().NoError(os.WriteFile(s.ConfigPath, []byte(testConfig), 0o600), "config write MUST succeed")

	// cobra keeps flag values between executions
	for _, name := range []string{"log-level", "config", "store"} {
		s.Require().NoError(rootCmd.PersistentFlags().Set(name, ""))
	}
	reconnectTimeout = 0
	connectServices = nil
}

// Remember stores dev as the most recent device.
func (s *CommandTestSuite) Remember(name, address string) wearable.DeviceHandle {
	st, err := store.NewFile(s.StorePath, s.Logger)
	s.Require().NoError(err)
	dev := testutils.Device(name, address)
	s.Require().NoError(st.Remember(dev), "remember MUST succeed")
	return dev
}

// MostRecent reads the store the commands use.
func (s *CommandTestSuite) MostRecent() (wearable.DeviceHandle, bool) {
	st, err := store.NewFile(s.StorePath, s.Logger)
	s.Require().NoError(err)
	dev, ok, err := st.MostRecent()
	s.Require().NoError(err)
	return dev, ok
}

// CaptureStdout executes fn while capturing stdout, returns captured output.
// Stdout is restored even if fn panics.
func (s *CommandTestSuite) CaptureStdout(fn func()) string {
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	s.Require().NoError(err, "pipe creation MUST succeed")
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()

	fn()

	w.Close()
	out, _ := io.ReadAll(r)
	return string(out)
}

// ExecuteCommand runs a cobra command with args against the suite's config
// and store, returns output and error.
func (s *CommandTestSuite) ExecuteCommand(cmd *cobra.Command, args ...string) (string, error) {
	return s.ExecuteCommandWithInput(cmd, "", args...)
}

// ExecuteCommandWithInput is ExecuteCommand with stdin set to input.
func (s *CommandTestSuite) ExecuteCommandWithInput(cmd *cobra.Command, input string, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append(args, "--config", s.ConfigPath, "--store", s.StorePath))
	err := cmd.Execute()
	return buf.String(), err
}
