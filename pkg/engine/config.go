package engine

import (
	"fmt"
	"runtime"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
)

const (
	DefaultPeers  = 5
	DefaultMargin = 1.0
)

type Config struct {
	Peers             int          `toml:"peers"              env:"PEERS"              envDefault:"5"`
	TrainSamples      int          `toml:"train_samples"      env:"TRAIN_SAMPLES"      envDefault:"1000"`
	TestSamples       int          `toml:"test_samples"       env:"TEST_SAMPLES"       envDefault:"200"`
	Dataset           dataset.Kind `toml:"dataset"            env:"DATASET"            envDefault:"noisy"`
	Margin            float64      `toml:"margin"             env:"MARGIN"             envDefault:"1"`
	LearningRate      float64      `toml:"learning_rate"      env:"LEARNING_RATE"      envDefault:"0.01"`
	GossipProbability float64      `toml:"gossip_probability" env:"GOSSIP_PROBABILITY" envDefault:"0.7"`
	BlendFactor       float64      `toml:"blend_factor"       env:"BLEND_FACTOR"       envDefault:"0.3"`
	FlipProbability   float64      `toml:"flip_probability"   env:"FLIP_PROBABILITY"   envDefault:"0.05"`
	EventWindow       int          `toml:"event_window"       env:"EVENT_WINDOW"       envDefault:"15"`
	// Workers bounds parallel local training; values below 2 train serially.
	Workers int `toml:"workers" env:"WORKERS" envDefault:"0"`
}

func DefaultConfig() Config {
	return Config{
		Peers:             DefaultPeers,
		TrainSamples:      dataset.DefaultTrainSamples,
		TestSamples:       dataset.DefaultTestSamples,
		Dataset:           dataset.Noisy,
		Margin:            DefaultMargin,
		LearningRate:      fl.DefaultLearningRate,
		GossipProbability: fl.DefaultGossipProbability,
		BlendFactor:       fl.DefaultBlendFactor,
		FlipProbability:   peer.DefaultFlipProbability,
		EventWindow:       network.DefaultWindow,
		Workers:           runtime.GOMAXPROCS(0),
	}
}

func (c Config) Validate() error {
	switch {
	case c.TrainSamples < 1:
		return invalid("train samples must be positive, got %d", c.TrainSamples)
	case c.TestSamples < 1:
		return invalid("test samples must be positive, got %d", c.TestSamples)
	case c.Peers < 1:
		return invalid("peer count must be positive, got %d", c.Peers)
	case c.Peers > c.TrainSamples:
		return invalid("peer count %d exceeds train samples %d", c.Peers, c.TrainSamples)
	case c.LearningRate <= 0:
		return invalid("learning rate must be positive, got %v", c.LearningRate)
	case !probability(c.GossipProbability):
		return invalid("gossip probability %v outside [0,1]", c.GossipProbability)
	case !probability(c.BlendFactor):
		return invalid("blend factor %v outside [0,1]", c.BlendFactor)
	case !probability(c.FlipProbability):
		return invalid("flip probability %v outside [0,1]", c.FlipProbability)
	case c.EventWindow < 1:
		return invalid("event window must be positive, got %d", c.EventWindow)
	case c.Dataset == dataset.Separable && c.Margin < 0:
		return invalid("margin must not be negative, got %v", c.Margin)
	}
	if err := c.Dataset.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrInvalidConfiguration, err)
	}

	return nil
}

func probability(p float64) bool {
	return p >= 0 && p <= 1
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errors.ErrInvalidConfiguration}, args...)...)
}
