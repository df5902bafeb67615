package testutil

import (
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/run"
)

func TestRun(id string) run.Run {
	records := []history.Record{
		{Epoch: 0, GlobalAccuracy: 0.5, GlobalLoss: 0.69, AvgPeerAccuracy: 0.52},
		{Epoch: 1, GlobalAccuracy: 0.61, GlobalLoss: 0.6, AvgPeerAccuracy: 0.6},
		{Epoch: 2, GlobalAccuracy: 0.74, GlobalLoss: 0.51, AvgPeerAccuracy: 0.7},
	}
	stats, _ := history.Analyze(records)
	started := time.Now().UTC().Truncate(time.Second)

	return run.Run{
		ID:         id,
		Seed:       1<<63 + 42,
		State:      "completed",
		Dataset:    "noisy",
		Peers:      5,
		Epochs:     2,
		MaxEpochs:  2,
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Records:    records,
		Stats:      stats,
	}
}
