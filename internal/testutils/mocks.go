package testutils

import (
	"time"

	"github.com/srg/wearlink/internal/connectui"
	"github.com/srg/wearlink/internal/wearable"
	"github.com/stretchr/testify/mock"
)

// MockTask is a testify mock of wearable.ConnectionTask. Expect "Start" and
// "Cancel" as needed.
type MockTask struct {
	mock.Mock
	done chan struct{}
}

func NewMockTask() *MockTask {
	return &MockTask{done: make(chan struct{})}
}

func (t *MockTask) Start()  { t.Called() }
func (t *MockTask) Cancel() { t.Called() }

func (t *MockTask) Done() <-chan struct{} { return t.done }

// MockSDK is a testify mock of the connectivity SDK consumed by the home
// controller.
type MockSDK struct {
	mock.Mock
}

func (m *MockSDK) StartConnection(mode wearable.Mode, intent wearable.SensorIntent, completion wearable.Completion) wearable.ConnectionTask {
	args := m.Called(mode, intent, completion)
	return args.Get(0).(wearable.ConnectionTask)
}

func (m *MockSDK) CreateSimulatedSession() wearable.Session {
	args := m.Called()
	return args.Get(0).(wearable.Session)
}

func (m *MockSDK) ReconnectTask(device wearable.DeviceHandle, removeTimeout time.Duration, sensor wearable.SensorIntent,
	gesture wearable.GestureIntent, ui connectui.ConnectUI, completion wearable.Completion) wearable.ConnectionTask {
	args := m.Called(device, removeTimeout, sensor, gesture, ui, completion)
	return args.Get(0).(wearable.ConnectionTask)
}

// CompletionArg extracts the completion passed to a mocked SDK call. index
// is the argument position.
func CompletionArg(args mock.Arguments, index int) wearable.Completion {
	return args.Get(index).(wearable.Completion)
}

// MockSession is a testify mock of wearable.Session.
type MockSession struct {
	mock.Mock
}

func (s *MockSession) Device() wearable.DeviceHandle {
	return s.Called().Get(0).(wearable.DeviceHandle)
}

func (s *MockSession) SensorIntent() wearable.SensorIntent {
	return s.Called().Get(0).(wearable.SensorIntent)
}

func (s *MockSession) Simulated() bool {
	return s.Called().Bool(0)
}

func (s *MockSession) Close() error {
	return s.Called().Error(0)
}
