package mltorrent

import (
	"fmt"
	"os"
	"time"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/trainer"
	"github.com/pelletier/go-toml"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation"`
}

// SimulationConfig mirrors the [simulation] table. Keys left out of the file
// stay nil and keep the value they already had when applied.
type SimulationConfig struct {
	Seed              *uint64  `toml:"seed"`
	MaxEpochs         *int     `toml:"max_epochs"`
	TickInterval      *string  `toml:"tick_interval"`
	Topic             *string  `toml:"topic"`
	Peers             *int     `toml:"peers"`
	TrainSamples      *int     `toml:"train_samples"`
	TestSamples       *int     `toml:"test_samples"`
	Dataset           *string  `toml:"dataset"`
	Margin            *float64 `toml:"margin"`
	LearningRate      *float64 `toml:"learning_rate"`
	GossipProbability *float64 `toml:"gossip_probability"`
	BlendFactor       *float64 `toml:"blend_factor"`
	FlipProbability   *float64 `toml:"flip_probability"`
	EventWindow       *int     `toml:"event_window"`
	Workers           *int     `toml:"workers"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Apply overrides cfg with every key set in the file.
func (s SimulationConfig) Apply(cfg trainer.Config) (trainer.Config, error) {
	if s.TickInterval != nil {
		d, err := time.ParseDuration(*s.TickInterval)
		if err != nil {
			return cfg, fmt.Errorf("error parsing tick_interval: %w", err)
		}
		cfg.TickInterval = d
	}
	if s.Dataset != nil {
		kind := dataset.Kind(*s.Dataset)
		if err := kind.Validate(); err != nil {
			return cfg, err
		}
		cfg.Engine.Dataset = kind
	}

	set(&cfg.Seed, s.Seed)
	set(&cfg.MaxEpochs, s.MaxEpochs)
	set(&cfg.Topic, s.Topic)
	set(&cfg.Engine.Peers, s.Peers)
	set(&cfg.Engine.TrainSamples, s.TrainSamples)
	set(&cfg.Engine.TestSamples, s.TestSamples)
	set(&cfg.Engine.Margin, s.Margin)
	set(&cfg.Engine.LearningRate, s.LearningRate)
	set(&cfg.Engine.GossipProbability, s.GossipProbability)
	set(&cfg.Engine.BlendFactor, s.BlendFactor)
	set(&cfg.Engine.FlipProbability, s.FlipProbability)
	set(&cfg.Engine.EventWindow, s.EventWindow)
	set(&cfg.Engine.Workers, s.Workers)

	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
