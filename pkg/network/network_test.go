package network_test

import (
	"testing"
	"time"

	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	rng := random.New(12)
	active := []int{1, 3, 4, 5}
	now := time.Unix(1000, 0)

	sawModel, sawGradient := false, false
	for range 500 {
		events := network.Generate(active, rng, now)
		require.GreaterOrEqual(t, len(events), 2)
		require.LessOrEqual(t, len(events), 4)

		for _, e := range events {
			assert.NotEqual(t, e.From, e.To)
			assert.Contains(t, active, e.From)
			assert.Contains(t, active, e.To)
			assert.GreaterOrEqual(t, e.SizeKB, 50)
			assert.Less(t, e.SizeKB, 200)
			assert.Equal(t, now, e.Timestamp)
			switch e.Kind {
			case network.Model:
				sawModel = true
			case network.Gradient:
				sawGradient = true
			default:
				t.Fatalf("unexpected kind %q", e.Kind)
			}
		}
	}
	assert.True(t, sawModel)
	assert.True(t, sawGradient)
}

func TestGenerateNeedsTwoPeers(t *testing.T) {
	cases := []struct {
		desc   string
		active []int
	}{
		{desc: "no active peers", active: nil},
		{desc: "single active peer", active: []int{2}},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			rng := random.New(1)
			ref := random.New(1)

			assert.Empty(t, network.Generate(tc.active, rng, time.Now()))
			assert.Equal(t, ref.Uint64(), rng.Uint64(), "no draws consumed")
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	now := time.Unix(5, 0)
	a := network.Generate([]int{1, 2, 3}, random.New(77), now)
	b := network.Generate([]int{1, 2, 3}, random.New(77), now)

	assert.Equal(t, a, b)
}

func TestLogKeepsTrailingWindow(t *testing.T) {
	log := network.NewLog(network.DefaultWindow)

	for i := range 40 {
		log.Append(network.Event{From: i, To: i + 1, Kind: network.Model, SizeKB: 60})
		assert.LessOrEqual(t, log.Len(), network.DefaultWindow)
	}

	events := log.Events()
	require.Len(t, events, network.DefaultWindow)
	assert.Equal(t, 25, events[0].From)
	assert.Equal(t, 39, events[len(events)-1].From)
}

func TestLogEventsIsCopy(t *testing.T) {
	log := network.NewLog(3)
	log.Append(network.Event{From: 1, To: 2})

	events := log.Events()
	events[0].From = 9

	assert.Equal(t, 1, log.Events()[0].From)
}

func TestNewLogDefaultsWindow(t *testing.T) {
	log := network.NewLog(0)
	for range 20 {
		log.Append(network.Event{})
	}

	assert.Equal(t, network.DefaultWindow, log.Len())
}
