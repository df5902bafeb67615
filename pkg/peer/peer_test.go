package peer_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestName(t *testing.T) {
	assert.Equal(t, "SmartHome-Berlin", peer.Name(1))
	assert.Equal(t, "Home-Stuttgart", peer.Name(5))
	assert.Equal(t, "Peer-6", peer.Name(6))
}

func TestNew(t *testing.T) {
	rng := random.New(1)
	shard := dataset.Generate(50, rng)
	now := time.Now()

	p := peer.New(2, shard, rng, now)

	assert.Equal(t, 2, p.ID)
	assert.Equal(t, "IoT-Munich", p.Name)
	assert.Equal(t, peer.Active, p.Status)
	assert.GreaterOrEqual(t, p.Contribution, peer.MinContribution)
	assert.Less(t, p.Contribution, peer.MaxContribution)
	assert.Zero(t, p.TotalUpdates)
	assert.Equal(t, now, p.LastUpdate)

	ev := fl.NewModelFromParameters(p.Parameters()).Evaluate(shard)
	assert.Equal(t, ev.Accuracy, p.Accuracy)
	assert.Equal(t, ev.Loss, p.Loss)
}

func TestTrain(t *testing.T) {
	rng := random.New(2)
	p := peer.New(1, dataset.Generate(100, rng), rng, time.Time{})
	before := p.Parameters()

	later := time.Unix(100, 0)
	require.True(t, p.Train(fl.DefaultLearningRate, later))
	assert.NotEqual(t, before, p.Parameters())
	assert.Equal(t, 1, p.TotalUpdates)
	assert.Equal(t, later, p.LastUpdate)

	p.Status = peer.Syncing
	params := p.Parameters()
	assert.False(t, p.Train(fl.DefaultLearningRate, later))
	assert.Equal(t, params, p.Parameters())
	assert.Equal(t, 1, p.TotalUpdates)
}

func TestRefreshRates(t *testing.T) {
	rng := random.New(3)
	p := peer.New(1, dataset.Generate(10, rng), rng, time.Time{})

	for range 100 {
		p.RefreshRates(rng)
		assert.GreaterOrEqual(t, p.UploadKBps, 50.0)
		assert.Less(t, p.UploadKBps, 150.0)
		assert.GreaterOrEqual(t, p.DownloadKBps, 50.0)
		assert.Less(t, p.DownloadKBps, 150.0)
	}
}

func TestSnapshotDoesNotAlias(t *testing.T) {
	rng := random.New(4)
	p := peer.New(3, dataset.Generate(20, rng), rng, time.Time{})

	snap := p.Snapshot()
	snap.Parameters.Weights[0] = 42

	assert.NotEqual(t, 42.0, p.Parameters().Weights[0])
	assert.Equal(t, 20, snap.ShardSize)
	assert.Equal(t, p.Contribution, snap.Trust)
}

func TestNextStatus(t *testing.T) {
	cases := []struct {
		desc     string
		status   peer.Status
		draw     float64
		expected peer.Status
	}{
		{desc: "active flips on low draw", status: peer.Active, draw: 0.01, expected: peer.Syncing},
		{desc: "syncing flips on low draw", status: peer.Syncing, draw: 0.049, expected: peer.Active},
		{desc: "active stays on high draw", status: peer.Active, draw: 0.05, expected: peer.Active},
		{desc: "syncing stays on high draw", status: peer.Syncing, draw: 0.9, expected: peer.Syncing},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.expected, peer.NextStatus(tc.status, tc.draw, peer.DefaultFlipProbability))
		})
	}
}

func TestStatusJSON(t *testing.T) {
	data, err := json.Marshal(peer.Syncing)
	require.NoError(t, err)
	assert.JSONEq(t, `"syncing"`, string(data))

	var s peer.Status
	require.NoError(t, json.Unmarshal([]byte(`"active"`), &s))
	assert.Equal(t, peer.Active, s)

	assert.Error(t, json.Unmarshal([]byte(`"offline"`), &s))
}
