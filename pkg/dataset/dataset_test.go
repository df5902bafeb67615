package dataset_test

import (
	"testing"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	samples := dataset.Generate(2000, random.New(1))
	require.Len(t, samples, 2000)

	for _, s := range samples {
		assert.GreaterOrEqual(t, s.X1, dataset.FeatureMin)
		assert.Less(t, s.X1, dataset.FeatureMax)
		assert.GreaterOrEqual(t, s.X2, dataset.FeatureMin)
		assert.Less(t, s.X2, dataset.FeatureMax)
		assert.Contains(t, []int{0, 1}, s.Label)

		// Noise can only flip labels inside the noise band.
		sum := s.X1 + s.X2
		if sum > dataset.NoiseAbs {
			assert.Equal(t, 1, s.Label)
		}
		if sum < -dataset.NoiseAbs {
			assert.Equal(t, 0, s.Label)
		}
	}
}

func TestGenerateSeparable(t *testing.T) {
	samples := dataset.GenerateSeparable(500, 1, random.New(2))
	require.Len(t, samples, 500)

	for _, s := range samples {
		sum := s.X1 + s.X2
		if s.Label == 1 {
			assert.Greater(t, sum, 1.0)
		} else {
			assert.Less(t, sum, -1.0)
		}
	}
}

func TestGenerateIndependentDraws(t *testing.T) {
	rng := random.New(3)
	train := dataset.Generate(10, rng)
	test := dataset.Generate(10, rng)

	assert.NotEqual(t, train, test)
}

func TestKindValidate(t *testing.T) {
	assert.NoError(t, dataset.Noisy.Validate())
	assert.NoError(t, dataset.Separable.Validate())
	assert.Error(t, dataset.Kind("spiral").Validate())
}

func TestPartition(t *testing.T) {
	cases := []struct {
		desc  string
		n     int
		peers int
		err   error
	}{
		{desc: "even split", n: 1000, peers: 5},
		{desc: "remainder goes to last shard", n: 1003, peers: 5},
		{desc: "one peer takes everything", n: 17, peers: 1},
		{desc: "one sample per peer", n: 7, peers: 7},
		{desc: "more peers than samples", n: 3, peers: 4, err: errors.ErrInvalidConfiguration},
		{desc: "zero peers", n: 10, peers: 0, err: errors.ErrInvalidConfiguration},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			data := dataset.Generate(tc.n, random.New(uint64(tc.n)))

			shards, err := dataset.Partition(data, tc.peers)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			require.Len(t, shards, tc.peers)

			size := tc.n / tc.peers
			var joined []dataset.Sample
			for i, shard := range shards {
				assert.NotEmpty(t, shard)
				if i < tc.peers-1 {
					assert.Len(t, shard, size)
				} else {
					assert.Len(t, shard, tc.n-size*(tc.peers-1))
				}
				joined = append(joined, shard...)
			}

			// Contiguous shards in order reproduce the dataset exactly,
			// which makes them pairwise disjoint with union equal to it.
			assert.Equal(t, data, joined)
		})
	}
}

func TestPartitionCopiesShards(t *testing.T) {
	data := dataset.Generate(10, random.New(9))
	shards, err := dataset.Partition(data, 2)
	require.NoError(t, err)

	shards[0][0].X1 = 100
	assert.NotEqual(t, 100.0, data[0].X1)
}
