package main

import (
	"log"
	"os"

	"github.com/absmach/mltorrent/cli"
	"github.com/absmach/mltorrent/pkg/sdk"
	"github.com/spf13/cobra"
)

const (
	defTrainerURL         = "http://localhost:9090"
	defTLSVerification    = false
	envTrainerURL         = "MLT_TRAINER_URL"
	envTLSVerificationKey = "MLT_TLS_VERIFICATION"
)

func main() {
	trainerURL := defTrainerURL
	if u := os.Getenv(envTrainerURL); u != "" {
		trainerURL = u
	}
	tlsVerification := defTLSVerification || os.Getenv(envTLSVerificationKey) == "true"

	rootCmd := &cobra.Command{
		Use:   "mltorrent-cli",
		Short: "MLTorrent CLI",
		Long:  `MLTorrent CLI controls and inspects the gossip federated learning trainer.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			s := sdk.NewSDK(sdk.Config{
				TrainerURL:      trainerURL,
				TLSVerification: tlsVerification,
			})
			cli.SetSDK(s)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&trainerURL, "trainer-url", "u", trainerURL, "Trainer HTTP API URL")
	rootCmd.PersistentFlags().BoolVar(&tlsVerification, "tls-verification", tlsVerification, "Verify the trainer TLS certificate")

	rootCmd.AddCommand(cli.NewTrainingCmd())
	rootCmd.AddCommand(cli.NewRunsCmd())
	rootCmd.AddCommand(cli.NewSimulateCmd())
	rootCmd.AddCommand(cli.NewWatchCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
