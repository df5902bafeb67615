package fl

// Parameters of the two-feature linear classifier. Arrays copy by value, so
// a Parameters value never aliases a model's live state.
type Parameters struct {
	Weights [2]float64 `json:"weights"`
	Bias    float64    `json:"bias"`
}

func (p Parameters) Scale(f float64) Parameters {
	return Parameters{
		Weights: [2]float64{p.Weights[0] * f, p.Weights[1] * f},
		Bias:    p.Bias * f,
	}
}

func (p Parameters) Add(o Parameters) Parameters {
	return Parameters{
		Weights: [2]float64{p.Weights[0] + o.Weights[0], p.Weights[1] + o.Weights[1]},
		Bias:    p.Bias + o.Bias,
	}
}

// Update is one peer's contribution to a round of aggregation.
type Update struct {
	PeerID     int        `json:"peer_id"`
	Parameters Parameters `json:"parameters"`
	Weight     float64    `json:"weight"`
}

// Evaluation is the result of scoring a model against a sample set.
type Evaluation struct {
	Accuracy float64 `json:"accuracy"`
	Loss     float64 `json:"loss"`
}

type Aggregator interface {
	Aggregate(updates []Update) (Parameters, error)
}
