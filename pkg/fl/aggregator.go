package fl

// FedAvgAggregator averages parameters weighted by each update's
// contribution weight normalised over the set.
type FedAvgAggregator struct{}

func NewFedAvgAggregator() Aggregator {
	return &FedAvgAggregator{}
}

func (f *FedAvgAggregator) Aggregate(updates []Update) (Parameters, error) {
	weights, err := NormalizedWeights(updates)
	if err != nil {
		return Parameters{}, err
	}

	var aggregated Parameters
	for i, update := range updates {
		aggregated = aggregated.Add(update.Parameters.Scale(weights[i]))
	}

	return aggregated, nil
}

// NormalizedWeights returns w_i / sum(w) for every update.
func NormalizedWeights(updates []Update) ([]float64, error) {
	if len(updates) == 0 {
		return nil, ErrNoUpdates
	}

	total := 0.0
	for _, update := range updates {
		if update.Weight <= 0 {
			return nil, ErrInvalidWeight
		}
		total += update.Weight
	}

	weights := make([]float64, len(updates))
	for i, update := range updates {
		weights[i] = update.Weight / total
	}

	return weights, nil
}
