package sdk_test

import (
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/pkg/sdk"
	"github.com/absmach/mltorrent/trainer"
	"github.com/absmach/mltorrent/trainer/api"
	"github.com/absmach/mltorrent/trainer/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (sdk.SDK, *mocks.MockService) {
	t.Helper()

	svc := new(mocks.MockService)
	ts := httptest.NewServer(api.MakeHandler(svc, nil, slog.Default(), "sdk-test"))
	t.Cleanup(ts.Close)

	return sdk.NewSDK(sdk.Config{TrainerURL: ts.URL}), svc
}

func TestLifecycle(t *testing.T) {
	s, svc := setup(t)
	running := trainer.Status{State: trainer.Running, RunID: "r1", Seed: 7, Epoch: 1, MaxEpochs: 50, TotalPeers: 5}
	svc.On("Start", mock.Anything).Return(running, nil)
	svc.On("Stop", mock.Anything).Return(trainer.Status{State: trainer.Idle, RunID: "r1", Epoch: 4}, nil)
	svc.On("Reset", mock.Anything).Return(trainer.Status{State: trainer.Idle, RunID: "r2"}, nil)
	svc.On("Status", mock.Anything).Return(running, nil)

	st, err := s.StartTraining()
	require.NoError(t, err)
	assert.Equal(t, "running", st.State)
	assert.Equal(t, uint64(7), st.Seed)
	assert.Equal(t, 5, st.TotalPeers)

	st, err = s.StopTraining()
	require.NoError(t, err)
	assert.Equal(t, "idle", st.State)
	assert.Equal(t, 4, st.Epoch)

	st, err = s.ResetTraining()
	require.NoError(t, err)
	assert.Equal(t, "r2", st.RunID)

	st, err = s.TrainingStatus()
	require.NoError(t, err)
	assert.Equal(t, 50, st.MaxEpochs)
	assert.True(t, st.StartedAt.IsZero())
}

func TestSetMaxEpochs(t *testing.T) {
	s, svc := setup(t)
	svc.On("SetMaxEpochs", mock.Anything, 0).Return(1, nil)
	svc.On("SetMaxEpochs", mock.Anything, 30).Return(0, pkgerrors.ErrRunning)

	applied, err := s.SetMaxEpochs(0)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	_, err = s.SetMaxEpochs(30)
	var sdkErr *sdk.Error
	require.ErrorAs(t, err, &sdkErr)
	assert.Equal(t, http.StatusConflict, sdkErr.StatusCode)
	assert.Contains(t, sdkErr.Message, pkgerrors.ErrRunning.Error())
}

func TestReadViews(t *testing.T) {
	s, svc := setup(t)
	svc.On("Peers", mock.Anything).Return([]peer.Snapshot{{ID: 1, Name: peer.Name(1), Trust: 0.8}}, nil)
	svc.On("Events", mock.Anything).Return([]network.Event{{From: 1, To: 2, Kind: network.Model, SizeKB: 120}}, nil)
	svc.On("History", mock.Anything).Return([]history.Record{{Epoch: 0}, {Epoch: 1}}, nil)
	svc.On("Stats", mock.Anything).Return(history.Stats{FinalAccuracy: 0.9, Convergence: history.Good}, nil)

	peers, err := s.Peers()
	require.NoError(t, err)
	require.Len(t, peers, 1)
	assert.InDelta(t, 0.8, peers[0].Trust, 1e-12)

	events, err := s.Events()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, network.Model, events[0].Kind)

	records, err := s.History()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, history.Good, stats.Convergence)
}

func TestRuns(t *testing.T) {
	s, svc := setup(t)
	page := run.RunPage{Offset: 2, Limit: 5, Total: 3, Runs: []run.Run{{ID: "a"}}}
	svc.On("ListRuns", mock.Anything, uint64(2), uint64(5)).Return(page, nil)
	svc.On("GetRun", mock.Anything, "a").Return(run.Run{ID: "a", Seed: 1<<63 + 1}, nil)
	svc.On("GetRun", mock.Anything, "missing").Return(run.Run{}, pkgerrors.ErrNotFound)

	got, err := s.ListRuns(2, 5)
	require.NoError(t, err)
	assert.Equal(t, page, got)

	r, err := s.GetRun("a")
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<63+1), r.Seed)

	_, err = s.GetRun("missing")
	var sdkErr *sdk.Error
	require.True(t, errors.As(err, &sdkErr))
	assert.Equal(t, http.StatusNotFound, sdkErr.StatusCode)
}
