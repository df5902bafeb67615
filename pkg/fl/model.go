package fl

import (
	"math"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/random"
)

const (
	DefaultLearningRate = 0.01

	initRange  = 0.5
	logEpsilon = 1e-15
	threshold  = 0.5
)

// Model is a logistic classifier: sigmoid(w1*x1 + w2*x2 + b).
type Model struct {
	params Parameters
}

// NewModel draws every parameter uniformly from [-0.5, 0.5).
func NewModel(rng random.Source) *Model {
	return &Model{
		params: Parameters{
			Weights: [2]float64{
				random.Uniform(rng, -initRange, initRange),
				random.Uniform(rng, -initRange, initRange),
			},
			Bias: random.Uniform(rng, -initRange, initRange),
		},
	}
}

func NewModelFromParameters(p Parameters) *Model {
	return &Model{params: p}
}

func (m *Model) Predict(x1, x2 float64) float64 {
	return sigmoid(m.params.Weights[0]*x1 + m.params.Weights[1]*x2 + m.params.Bias)
}

// Train performs a single full-batch gradient step over data.
func (m *Model) Train(data []dataset.Sample, lr float64) {
	if len(data) == 0 {
		return
	}

	var gw1, gw2, gb float64
	for _, s := range data {
		err := float64(s.Label) - m.Predict(s.X1, s.X2)
		gw1 += err * s.X1
		gw2 += err * s.X2
		gb += err
	}

	n := float64(len(data))
	m.params.Weights[0] += lr * gw1 / n
	m.params.Weights[1] += lr * gw2 / n
	m.params.Bias += lr * gb / n
}

// Evaluate returns accuracy at the 0.5 threshold and mean binary
// cross-entropy. An empty set evaluates to the zero Evaluation.
func (m *Model) Evaluate(data []dataset.Sample) Evaluation {
	if len(data) == 0 {
		return Evaluation{}
	}

	correct := 0
	loss := 0.0
	for _, s := range data {
		p := m.Predict(s.X1, s.X2)

		predicted := 0
		if p > threshold {
			predicted = 1
		}
		if predicted == s.Label {
			correct++
		}

		y := float64(s.Label)
		loss -= y*math.Log(p+logEpsilon) + (1-y)*math.Log(1-p+logEpsilon)
	}

	n := float64(len(data))

	return Evaluation{
		Accuracy: float64(correct) / n,
		Loss:     math.Max(loss/n, 0),
	}
}

func (m *Model) Parameters() Parameters {
	return m.params
}

func (m *Model) SetParameters(p Parameters) {
	m.params = p
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
