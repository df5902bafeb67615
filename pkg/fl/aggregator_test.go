package fl_test

import (
	"testing"

	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFedAvgAggregate(t *testing.T) {
	agg := fl.NewFedAvgAggregator()

	cases := []struct {
		desc     string
		updates  []fl.Update
		expected fl.Parameters
		err      error
	}{
		{
			desc: "single update is copied exactly",
			updates: []fl.Update{
				{PeerID: 1, Parameters: fl.Parameters{Weights: [2]float64{0.123456789, -0.987654321}, Bias: 0.31415926}, Weight: 0.87},
			},
			expected: fl.Parameters{Weights: [2]float64{0.123456789, -0.987654321}, Bias: 0.31415926},
		},
		{
			desc: "equal weights give the plain mean",
			updates: []fl.Update{
				{PeerID: 1, Parameters: fl.Parameters{Weights: [2]float64{1, 2}, Bias: 3}, Weight: 0.9},
				{PeerID: 2, Parameters: fl.Parameters{Weights: [2]float64{3, 4}, Bias: 5}, Weight: 0.9},
			},
			expected: fl.Parameters{Weights: [2]float64{2, 3}, Bias: 4},
		},
		{
			desc: "unequal weights",
			updates: []fl.Update{
				{PeerID: 1, Parameters: fl.Parameters{Weights: [2]float64{0, 0}, Bias: 0}, Weight: 1},
				{PeerID: 2, Parameters: fl.Parameters{Weights: [2]float64{4, 8}, Bias: -4}, Weight: 3},
			},
			expected: fl.Parameters{Weights: [2]float64{3, 6}, Bias: -3},
		},
		{
			desc: "no updates",
			err:  fl.ErrNoUpdates,
		},
		{
			desc: "non positive weight",
			updates: []fl.Update{
				{PeerID: 1, Weight: 0},
			},
			err: fl.ErrInvalidWeight,
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := agg.Aggregate(tc.updates)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tc.expected.Weights[0], got.Weights[0], 1e-12)
			assert.InDelta(t, tc.expected.Weights[1], got.Weights[1], 1e-12)
			assert.InDelta(t, tc.expected.Bias, got.Bias, 1e-12)
		})
	}
}

func TestSingleUpdateBitForBit(t *testing.T) {
	rng := random.New(21)
	for range 100 {
		params := fl.NewModel(rng).Parameters()
		got, err := fl.NewFedAvgAggregator().Aggregate([]fl.Update{
			{PeerID: 1, Parameters: params, Weight: random.Uniform(rng, 0.8, 1.0)},
		})
		require.NoError(t, err)
		assert.Equal(t, params, got)
	}
}

func TestNormalizedWeightsSumToOne(t *testing.T) {
	rng := random.New(33)
	for n := 1; n <= 50; n++ {
		updates := make([]fl.Update, n)
		for i := range updates {
			updates[i] = fl.Update{PeerID: i + 1, Weight: random.Uniform(rng, 0.8, 1.0)}
		}

		weights, err := fl.NormalizedWeights(updates)
		require.NoError(t, err)

		sum := 0.0
		for _, w := range weights {
			assert.Greater(t, w, 0.0)
			sum += w
		}
		assert.InDelta(t, 1.0, sum, 1e-9)
	}
}
