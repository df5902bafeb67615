package cli

import (
	"fmt"

	"github.com/absmach/mltorrent"
	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/engine"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/trainer"
	"github.com/spf13/cobra"
)

type simulationReport struct {
	Seed    uint64           `json:"seed"`
	Rounds  int              `json:"rounds"`
	Config  engine.Config    `json:"config"`
	Final   history.Record   `json:"final"`
	Stats   history.Stats    `json:"stats"`
	Totals  engine.Totals    `json:"totals"`
	History []history.Record `json:"history,omitempty"`
}

func simulate(cfg engine.Config, seed uint64, rounds int) (simulationReport, error) {
	if rounds < 1 {
		return simulationReport{}, fmt.Errorf("rounds must be positive, got %d", rounds)
	}

	sim, err := engine.New(cfg, seed)
	if err != nil {
		return simulationReport{}, err
	}

	for range rounds {
		if _, err := sim.Step(); err != nil {
			return simulationReport{}, err
		}
	}

	records := sim.History()
	stats, _ := history.Analyze(records)

	return simulationReport{
		Seed:    seed,
		Rounds:  rounds,
		Config:  sim.Config(),
		Final:   records[len(records)-1],
		Stats:   stats,
		Totals:  sim.Totals(),
		History: records,
	}, nil
}

func NewSimulateCmd() *cobra.Command {
	var (
		configPath  string
		seed        uint64
		rounds      int
		peers       int
		kind        string
		showHistory bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a simulation locally",
		Long: `Run the gossip federated learning simulation in process, without a trainer,
and print the resulting statistics.

Examples:
  # Fifty rounds with the default five peers
  mltorrent-cli simulate --seed 42 --rounds 50

  # Linearly separable data, settings from a config file
  mltorrent-cli simulate --dataset separable --config ./config.toml`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			cfg := trainer.Config{
				Engine:    engine.DefaultConfig(),
				Seed:      seed,
				MaxEpochs: rounds,
			}
			if configPath != "" {
				file, err := mltorrent.LoadConfig(configPath)
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				if cfg, err = file.Simulation.Apply(cfg); err != nil {
					logErrorCmd(*cmd, err)

					return
				}
			}

			// Explicit flags win over the config file.
			flags := cmd.Flags()
			if flags.Changed("seed") {
				cfg.Seed = seed
			}
			if flags.Changed("rounds") {
				cfg.MaxEpochs = rounds
			}
			if flags.Changed("peers") {
				cfg.Engine.Peers = peers
			}
			if flags.Changed("dataset") {
				cfg.Engine.Dataset = dataset.Kind(kind)
			}

			report, err := simulate(cfg.Engine, cfg.Seed, cfg.MaxEpochs)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			if !showHistory {
				report.History = nil
			}
			logJSONCmd(*cmd, report)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML file with a [simulation] table")
	cmd.Flags().Uint64VarP(&seed, "seed", "s", 1, "Random seed")
	cmd.Flags().IntVarP(&rounds, "rounds", "r", trainer.DefaultEpochs, "Number of rounds to run")
	cmd.Flags().IntVarP(&peers, "peers", "p", engine.DefaultPeers, "Number of peers")
	cmd.Flags().StringVarP(&kind, "dataset", "d", string(dataset.Noisy), "Dataset kind: noisy or separable")
	cmd.Flags().BoolVar(&showHistory, "history", false, "Include every round in the output")

	return cmd
}
