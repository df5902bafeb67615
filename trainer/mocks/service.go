package mocks

import (
	"context"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/trainer"
	"github.com/stretchr/testify/mock"
)

var _ trainer.Service = (*MockService)(nil)

// MockService is a mock implementation of the trainer.Service interface
type MockService struct {
	mock.Mock
}

func (m *MockService) Start(ctx context.Context) (trainer.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(trainer.Status), args.Error(1)
}

func (m *MockService) Stop(ctx context.Context) (trainer.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(trainer.Status), args.Error(1)
}

func (m *MockService) Reset(ctx context.Context) (trainer.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(trainer.Status), args.Error(1)
}

func (m *MockService) SetMaxEpochs(ctx context.Context, n int) (int, error) {
	args := m.Called(ctx, n)

	return args.Int(0), args.Error(1)
}

func (m *MockService) Status(ctx context.Context) (trainer.Status, error) {
	args := m.Called(ctx)

	return args.Get(0).(trainer.Status), args.Error(1)
}

// Peers returns the current peer snapshots
func (m *MockService) Peers(ctx context.Context) ([]peer.Snapshot, error) {
	args := m.Called(ctx)

	return args.Get(0).([]peer.Snapshot), args.Error(1)
}

func (m *MockService) Events(ctx context.Context) ([]network.Event, error) {
	args := m.Called(ctx)

	return args.Get(0).([]network.Event), args.Error(1)
}

func (m *MockService) History(ctx context.Context) ([]history.Record, error) {
	args := m.Called(ctx)

	return args.Get(0).([]history.Record), args.Error(1)
}

func (m *MockService) Stats(ctx context.Context) (history.Stats, error) {
	args := m.Called(ctx)

	return args.Get(0).(history.Stats), args.Error(1)
}

// ListRuns lists archived runs with pagination
func (m *MockService) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	args := m.Called(ctx, offset, limit)

	return args.Get(0).(run.RunPage), args.Error(1)
}

func (m *MockService) GetRun(ctx context.Context, id string) (run.Run, error) {
	args := m.Called(ctx, id)

	return args.Get(0).(run.Run), args.Error(1)
}

func (m *MockService) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
