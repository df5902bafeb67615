package history

type Convergence string

const (
	Good     Convergence = "Good"
	Moderate Convergence = "Moderate"
	Limited  Convergence = "Limited"

	goodImprovement     = 0.01
	moderateImprovement = 0.005
)

type Stats struct {
	InitialAccuracy float64     `json:"initial_accuracy"`
	FinalAccuracy   float64     `json:"final_accuracy"`
	Improvement     float64     `json:"improvement"`
	BestAccuracy    float64     `json:"best_accuracy"`
	BestEpoch       int         `json:"best_epoch"`
	Convergence     Convergence `json:"convergence"`
}

// Analyze derives summary statistics. It reports false for an empty ledger.
func Analyze(records []Record) (Stats, bool) {
	if len(records) == 0 {
		return Stats{}, false
	}

	first, last := records[0], records[len(records)-1]
	best := first
	for _, r := range records[1:] {
		if r.GlobalAccuracy > best.GlobalAccuracy {
			best = r
		}
	}

	improvement := last.GlobalAccuracy - first.GlobalAccuracy

	return Stats{
		InitialAccuracy: first.GlobalAccuracy,
		FinalAccuracy:   last.GlobalAccuracy,
		Improvement:     improvement,
		BestAccuracy:    best.GlobalAccuracy,
		BestEpoch:       best.Epoch,
		Convergence:     Classify(improvement),
	}, true
}

func Classify(improvement float64) Convergence {
	switch {
	case improvement > goodImprovement:
		return Good
	case improvement > moderateImprovement:
		return Moderate
	default:
		return Limited
	}
}
