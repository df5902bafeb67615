package fl_test

import (
	"math"
	"testing"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewModelInitRange(t *testing.T) {
	rng := random.New(11)
	for range 200 {
		p := fl.NewModel(rng).Parameters()
		for _, v := range []float64{p.Weights[0], p.Weights[1], p.Bias} {
			assert.GreaterOrEqual(t, v, -0.5)
			assert.Less(t, v, 0.5)
		}
	}
}

func TestPredict(t *testing.T) {
	m := fl.NewModelFromParameters(fl.Parameters{Weights: [2]float64{1, 2}, Bias: -3})

	assert.InDelta(t, 0.5, m.Predict(1, 1), 1e-12)
	assert.InDelta(t, 1/(1+math.Exp(-2)), m.Predict(1, 2), 1e-12)
	assert.Less(t, m.Predict(-10, -10), 0.5)
}

func TestTrainSingleStep(t *testing.T) {
	m := fl.NewModelFromParameters(fl.Parameters{})
	data := []dataset.Sample{
		{X1: 2, X2: 0, Label: 1},
		{X1: 0, X2: -4, Label: 0},
	}

	m.Train(data, 0.1)

	// With zero parameters every prediction is 0.5, so the errors are +0.5 and -0.5.
	// gw1 = 0.5*2 = 1, gw2 = -0.5*-4 = 2, gb = 0.
	p := m.Parameters()
	assert.InDelta(t, 0.1*1/2, p.Weights[0], 1e-12)
	assert.InDelta(t, 0.1*2/2, p.Weights[1], 1e-12)
	assert.InDelta(t, 0, p.Bias, 1e-12)
}

func TestTrainEmptyIsNoop(t *testing.T) {
	params := fl.Parameters{Weights: [2]float64{0.1, 0.2}, Bias: 0.3}
	m := fl.NewModelFromParameters(params)
	m.Train(nil, fl.DefaultLearningRate)

	assert.Equal(t, params, m.Parameters())
}

func TestTrainImprovesLoss(t *testing.T) {
	rng := random.New(5)
	data := dataset.Generate(500, rng)
	m := fl.NewModel(rng)

	before := m.Evaluate(data).Loss
	for range 50 {
		m.Train(data, 0.1)
	}
	after := m.Evaluate(data).Loss

	assert.Less(t, after, before)
}

func TestEvaluateBounds(t *testing.T) {
	cases := []struct {
		desc   string
		params fl.Parameters
		data   []dataset.Sample
	}{
		{
			desc:   "random model on noisy data",
			params: fl.NewModel(random.New(1)).Parameters(),
			data:   dataset.Generate(100, random.New(2)),
		},
		{
			desc:   "saturated confident wrong model",
			params: fl.Parameters{Weights: [2]float64{-1000, -1000}},
			data:   dataset.GenerateSeparable(100, 1, random.New(3)),
		},
		{
			desc:   "saturated confident right model",
			params: fl.Parameters{Weights: [2]float64{1000, 1000}},
			data:   dataset.GenerateSeparable(100, 1, random.New(4)),
		},
		{
			desc:   "single sample",
			params: fl.Parameters{},
			data:   []dataset.Sample{{X1: 1, X2: 1, Label: 1}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.desc, func(t *testing.T) {
			ev := fl.NewModelFromParameters(tc.params).Evaluate(tc.data)

			assert.GreaterOrEqual(t, ev.Accuracy, 0.0)
			assert.LessOrEqual(t, ev.Accuracy, 1.0)
			assert.GreaterOrEqual(t, ev.Loss, 0.0)
			assert.False(t, math.IsNaN(ev.Loss))
			assert.False(t, math.IsInf(ev.Loss, 0))
		})
	}
}

func TestEvaluateSaturatedModels(t *testing.T) {
	data := dataset.GenerateSeparable(100, 1, random.New(6))

	right := fl.NewModelFromParameters(fl.Parameters{Weights: [2]float64{1000, 1000}}).Evaluate(data)
	assert.Equal(t, 1.0, right.Accuracy)
	assert.InDelta(t, 0, right.Loss, 1e-9)

	wrong := fl.NewModelFromParameters(fl.Parameters{Weights: [2]float64{-1000, -1000}}).Evaluate(data)
	assert.Equal(t, 0.0, wrong.Accuracy)
	assert.InDelta(t, -math.Log(1e-15), wrong.Loss, 1e-6)
}

func TestEvaluateEmpty(t *testing.T) {
	assert.Equal(t, fl.Evaluation{}, fl.NewModel(random.New(1)).Evaluate(nil))
}

func TestParametersAreCopied(t *testing.T) {
	m := fl.NewModelFromParameters(fl.Parameters{Weights: [2]float64{1, 2}, Bias: 3})

	p := m.Parameters()
	p.Weights[0] = 99
	require.Equal(t, 1.0, m.Parameters().Weights[0])

	in := fl.Parameters{Weights: [2]float64{4, 5}, Bias: 6}
	m.SetParameters(in)
	in.Weights[1] = 99
	assert.Equal(t, 5.0, m.Parameters().Weights[1])
}
