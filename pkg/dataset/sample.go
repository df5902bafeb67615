package dataset

import (
	"fmt"

	"github.com/absmach/mltorrent/pkg/random"
)

const (
	FeatureMin = -5.0
	FeatureMax = 5.0
	NoiseAbs   = 0.25

	DefaultTrainSamples = 1000
	DefaultTestSamples  = 200
)

// Kind selects the distribution samples are drawn from.
type Kind string

const (
	// Noisy labels x1+x2+noise > 0, noise uniform in [-0.25, 0.25].
	Noisy Kind = "noisy"
	// Separable labels by x1+x2 against a margin band that is never sampled.
	Separable Kind = "separable"
)

func (k Kind) Validate() error {
	switch k {
	case Noisy, Separable:
		return nil
	default:
		return fmt.Errorf("unknown dataset kind %q", k)
	}
}

// Sample is a single labelled point. Label is 0 or 1.
type Sample struct {
	X1    float64 `json:"x1"`
	X2    float64 `json:"x2"`
	Label int     `json:"label"`
}

func Generate(n int, rng random.Source) []Sample {
	samples := make([]Sample, n)
	for i := range samples {
		x1 := random.Uniform(rng, FeatureMin, FeatureMax)
		x2 := random.Uniform(rng, FeatureMin, FeatureMax)
		noise := random.Uniform(rng, -NoiseAbs, NoiseAbs)

		label := 0
		if x1+x2+noise > 0 {
			label = 1
		}
		samples[i] = Sample{X1: x1, X2: x2, Label: label}
	}

	return samples
}

// GenerateSeparable draws points with |x1+x2| > margin by rejection.
// Label is 1 iff x1+x2 > margin.
func GenerateSeparable(n int, margin float64, rng random.Source) []Sample {
	samples := make([]Sample, 0, n)
	for len(samples) < n {
		x1 := random.Uniform(rng, FeatureMin, FeatureMax)
		x2 := random.Uniform(rng, FeatureMin, FeatureMax)

		switch s := x1 + x2; {
		case s > margin:
			samples = append(samples, Sample{X1: x1, X2: x2, Label: 1})
		case s < -margin:
			samples = append(samples, Sample{X1: x1, X2: x2, Label: 0})
		}
	}

	return samples
}

// Draw generates n samples of the given kind.
func Draw(kind Kind, n int, margin float64, rng random.Source) []Sample {
	if kind == Separable {
		return GenerateSeparable(n, margin, rng)
	}

	return Generate(n, rng)
}
