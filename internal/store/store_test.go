package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/srg/wearlink/internal/wearable"
	"github.com/stretchr/testify/suite"
)

var band = wearable.DeviceHandle{ID: "band-1", Name: "Band", Address: "aa:bb:cc:dd:ee:ff"}

type FileStoreTestSuite struct {
	suite.Suite
	dir   string
	store *File
}

func TestFileStoreTestSuite(t *testing.T) {
	suite.Run(t, new(FileStoreTestSuite))
}

func (s *FileStoreTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	st, err := NewFile(filepath.Join(s.dir, "nested", "last_device.yaml"), nil)
	s.Require().NoError(err)
	st.now = func() time.Time { return time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC) }
	s.store = st
}

func (s *FileStoreTestSuite) TestMissingFileIsNotAnError() {
	// GOAL: Verify an absent record reports "no device" without an error
	//
	// TEST SCENARIO: Fresh path → MostRecent → ok=false, err=nil

	dev, ok, err := s.store.MostRecent()
	s.NoError(err, "missing file MUST NOT be an error")
	s.False(ok)
	s.True(dev.IsZero())
}

func (s *FileStoreTestSuite) TestRememberRoundTrip() {
	// GOAL: Verify a remembered device is read back and the file is human-readable YAML
	//
	// TEST SCENARIO: Remember → MostRecent returns device → file content matches layout

	s.Require().NoError(s.store.Remember(band))

	dev, ok, err := s.store.MostRecent()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(band, dev)

	data, err := os.ReadFile(s.store.Path())
	s.Require().NoError(err)
	s.Equal(`device:
  id: band-1
  name: Band
  address: aa:bb:cc:dd:ee:ff
connected_at: 2026-10-14T09:30:00Z
`, string(data))

	info, err := os.Stat(s.store.Path())
	s.Require().NoError(err)
	s.Equal(os.FileMode(0o600), info.Mode().Perm(), "record MUST be private to the user")
}

func (s *FileStoreTestSuite) TestRememberReplaces() {
	// GOAL: Verify only the most recent device is kept
	//
	// TEST SCENARIO: Remember A → Remember B → MostRecent is B

	other := wearable.DeviceHandle{ID: "band-2", Name: "Other", Address: "11:22:33:44:55:66"}
	s.Require().NoError(s.store.Remember(band))
	s.Require().NoError(s.store.Remember(other))

	dev, ok, err := s.store.MostRecent()
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(other, dev)
}

func (s *FileStoreTestSuite) TestRememberRejectsZeroDevice() {
	s.Error(s.store.Remember(wearable.DeviceHandle{}))
}

func (s *FileStoreTestSuite) TestForget() {
	// GOAL: Verify Forget clears the record and is idempotent
	//
	// TEST SCENARIO: Remember → Forget → MostRecent empty → Forget again → no error

	s.Require().NoError(s.store.Remember(band))
	s.Require().NoError(s.store.Forget())

	_, ok, err := s.store.MostRecent()
	s.NoError(err)
	s.False(ok)
	s.NoError(s.store.Forget(), "forgetting twice MUST succeed")
}

func (s *FileStoreTestSuite) TestCorruptFile() {
	// GOAL: Verify a garbage record surfaces as an error rather than a device
	//
	// TEST SCENARIO: Write invalid YAML → MostRecent → error

	s.Require().NoError(os.MkdirAll(filepath.Dir(s.store.Path()), 0o755))
	s.Require().NoError(os.WriteFile(s.store.Path(), []byte("device: [unclosed"), 0o600))

	_, ok, err := s.store.MostRecent()
	s.Error(err)
	s.False(ok)
}

func TestMemory(t *testing.T) {
	m := NewMemory()

	_, ok, err := m.MostRecent()
	if err != nil || ok {
		t.Fatalf("empty memory store MUST report no device, got ok=%v err=%v", ok, err)
	}

	if err := m.Remember(band); err != nil {
		t.Fatal(err)
	}
	dev, ok, _ := m.MostRecent()
	if !ok || dev != band {
		t.Fatalf("MostRecent MUST return remembered device, got %v", dev)
	}

	_ = m.Forget()
	if _, ok, _ := m.MostRecent(); ok {
		t.Fatal("Forget MUST clear the device")
	}
}
