package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/absmach/mltorrent/pkg/mqtt"
	"github.com/absmach/mltorrent/trainer"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func NewWatchCmd() *cobra.Command {
	var (
		brokerURL string
		topic     string
		username  string
		password  string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow training rounds over MQTT",
		Long:  `Subscribe to the trainer's rounds topic and print every committed round until interrupted.`,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) != 0 {
				logUsageCmd(*cmd, cmd.Use)

				return
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
			ps, err := mqtt.NewPubSub(mqtt.Config{
				URL:      brokerURL,
				QoS:      1,
				Username: username,
				Password: password,
				Timeout:  10 * time.Second,
			}, "mltorrent-cli-"+uuid.NewString(), logger)
			if err != nil {
				logErrorCmd(*cmd, err)

				return
			}
			defer func() {
				_ = ps.Disconnect(context.Background())
			}()

			rounds := trainer.RoundsTopic(topic)
			if err := ps.Subscribe(ctx, rounds, func(_ string, msg map[string]any) error {
				logJSONCmd(*cmd, msg)

				return nil
			}); err != nil {
				logErrorCmd(*cmd, err)

				return
			}

			<-ctx.Done()
			_ = ps.Unsubscribe(context.Background(), rounds)
		},
	}

	cmd.Flags().StringVarP(&brokerURL, "mqtt-url", "m", "tcp://localhost:1883", "MQTT broker URL")
	cmd.Flags().StringVarP(&topic, "topic", "t", "mltorrent", "Base topic of the trainer")
	cmd.Flags().StringVar(&username, "username", "", "MQTT username")
	cmd.Flags().StringVar(&password, "password", "", "MQTT password")

	return cmd
}
