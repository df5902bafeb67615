package cli

import (
	"strconv"

	"github.com/absmach/mltorrent/pkg/sdk"
	"github.com/spf13/cobra"
)

var msdk sdk.SDK

func SetSDK(s sdk.SDK) {
	msdk = s
}

func NewTrainingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "training [start|stop|reset|status|peers|events|history|stats|max-epochs]",
		Short: "Training control",
		Long:  `Start, stop, reset and inspect the running federated training simulation.`,
	}

	lifecycle := []struct {
		use   string
		short string
		call  func() (sdk.Status, error)
	}{
		{use: "start", short: "Start or resume training", call: func() (sdk.Status, error) { return msdk.StartTraining() }},
		{use: "stop", short: "Stop training", call: func() (sdk.Status, error) { return msdk.StopTraining() }},
		{use: "reset", short: "Reset the simulation", call: func() (sdk.Status, error) { return msdk.ResetTraining() }},
		{use: "status", short: "Show training status", call: func() (sdk.Status, error) { return msdk.TrainingStatus() }},
	}
	for _, l := range lifecycle {
		cmd.AddCommand(&cobra.Command{
			Use:   l.use,
			Short: l.short,
			Run: func(cmd *cobra.Command, args []string) {
				if len(args) != 0 {
					logUsageCmd(*cmd, cmd.Use)

					return
				}

				st, err := l.call()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, st)
			},
		})
	}

	views := []struct {
		use   string
		short string
		call  func() (any, error)
	}{
		{use: "peers", short: "List peers", call: func() (any, error) { return msdk.Peers() }},
		{use: "events", short: "List recent network events", call: func() (any, error) { return msdk.Events() }},
		{use: "history", short: "Show per-round history", call: func() (any, error) { return msdk.History() }},
		{use: "stats", short: "Show training statistics", call: func() (any, error) { return msdk.Stats() }},
	}
	for _, v := range views {
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			Run: func(cmd *cobra.Command, args []string) {
				if len(args) != 0 {
					logUsageCmd(*cmd, cmd.Use)

					return
				}

				res, err := v.call()
				if err != nil {
					logErrorCmd(*cmd, err)

					return
				}
				logJSONCmd(*cmd, res)
			},
		})
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "max-epochs <n>",
		Short: "Set the epoch budget",
		Long:  `Set the epoch budget. Values outside [1, 200] are clamped; training must not be running.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 1 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			n, err := strconv.Atoi(args[0])
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			applied, err := msdk.SetMaxEpochs(n)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			logJSONCmd(*cmd, map[string]int{"max_epochs": applied})
		},
	})

	return cmd
}
