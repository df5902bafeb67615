package cli_test

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/absmach/mltorrent/cli"
	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/pkg/sdk"
	"github.com/absmach/mltorrent/trainer"
	"github.com/absmach/mltorrent/trainer/api"
	"github.com/absmach/mltorrent/trainer/mocks"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *mocks.MockService {
	t.Helper()

	svc := new(mocks.MockService)
	ts := httptest.NewServer(api.MakeHandler(svc, nil, slog.Default(), "cli-test"))
	t.Cleanup(ts.Close)
	cli.SetSDK(sdk.NewSDK(sdk.Config{TrainerURL: ts.URL}))

	return svc
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string) {
	t.Helper()

	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())

	return out.String(), errOut.String()
}

func TestTrainingStatus(t *testing.T) {
	svc := setup(t)
	svc.On("Status", mock.Anything).Return(trainer.Status{State: trainer.Running, RunID: "run-9"}, nil)

	out, errOut := execute(t, cli.NewTrainingCmd(), "status")
	assert.Empty(t, errOut)
	assert.Contains(t, out, `"run_id"`)
	assert.Contains(t, out, `"run-9"`)
}

func TestTrainingMaxEpochs(t *testing.T) {
	svc := setup(t)
	svc.On("SetMaxEpochs", mock.Anything, 500).Return(200, nil)

	out, _ := execute(t, cli.NewTrainingCmd(), "max-epochs", "500")
	assert.Contains(t, out, "200")
	svc.AssertExpectations(t)
}

func TestTrainingMaxEpochsErrors(t *testing.T) {
	svc := setup(t)
	svc.On("SetMaxEpochs", mock.Anything, 20).Return(0, pkgerrors.ErrRunning)

	_, errOut := execute(t, cli.NewTrainingCmd(), "max-epochs", "20")
	assert.Contains(t, errOut, "409")

	_, errOut = execute(t, cli.NewTrainingCmd(), "max-epochs", "many")
	assert.Contains(t, errOut, "error")
}

func TestTrainingUsage(t *testing.T) {
	setup(t)

	out, _ := execute(t, cli.NewTrainingCmd(), "start", "now")
	assert.Contains(t, out, "usage")
}

func TestRunsList(t *testing.T) {
	svc := setup(t)
	svc.On("ListRuns", mock.Anything, uint64(0), uint64(3)).Return(run.RunPage{Limit: 3, Total: 1, Runs: []run.Run{{ID: "r-1"}}}, nil)

	out, errOut := execute(t, cli.NewRunsCmd(), "list", "--limit", "3")
	assert.Empty(t, errOut)
	assert.Contains(t, out, `"r-1"`)
}
