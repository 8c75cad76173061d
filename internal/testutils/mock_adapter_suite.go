package testutils

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/srg/wearlink/internal/wearable/goble"
	"github.com/stretchr/testify/suite"
)

// MockAdapterSuite provides a reusable test suite with a fake BLE adapter
// installed as goble.AdapterFactory.
//
// Basic usage:
//
//	type ReconnectSuite struct {
//	    testutils.MockAdapterSuite
//	}
//
//	func (s *ReconnectSuite) SetupTest() {
//	    s.MockAdapterSuite.SetupTest()
//	    s.Adapter.Advertisements = []goble.Advertisement{
//	        testutils.CreateAdvertisement("Band", "AA:BB:CC:DD:EE:FF", -50),
//	    }
//	}
type MockAdapterSuite struct {
	suite.Suite

	Helper *TestHelper
	Logger *logrus.Logger

	// Adapter is recreated before each test.
	Adapter *FakeAdapter
	// AdapterErr, when set, makes the factory fail instead.
	AdapterErr error

	OriginalAdapterFactory func() (goble.Adapter, error)
	TestTimeout            time.Duration
}

// SetupSuite initializes the helper and saves the real factory.
func (s *MockAdapterSuite) SetupSuite() {
	s.Helper = NewTestHelper(s.T())
	s.Logger = s.Helper.Logger
	s.TestTimeout = 5 * time.Second
	s.OriginalAdapterFactory = goble.AdapterFactory

	s.T().Cleanup(func() {
		if s.OriginalAdapterFactory != nil {
			goble.AdapterFactory = s.OriginalAdapterFactory
		}
	})
}

// SetupTest installs a fresh fake adapter.
func (s *MockAdapterSuite) SetupTest() {
	s.Adapter = NewFakeAdapter()
	s.AdapterErr = nil
	goble.AdapterFactory = func() (goble.Adapter, error) {
		if s.AdapterErr != nil {
			return nil, s.AdapterErr
		}
		return s.Adapter, nil
	}
}

// TearDownTest restores the real factory.
func (s *MockAdapterSuite) TearDownTest() {
	if s.OriginalAdapterFactory != nil {
		goble.AdapterFactory = s.OriginalAdapterFactory
	}
	s.Adapter = nil
}
