package trainer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/mqtt"
)

const (
	cmdStart     = "start"
	cmdStop      = "stop"
	cmdReset     = "reset"
	cmdMaxEpochs = "max_epochs"
)

var errUnknownCommand = errors.New("unknown control command")

func (svc *service) controlTopic() string {
	return ControlTopic(svc.cfg.Topic)
}

func (svc *service) Subscribe(ctx context.Context) error {
	if svc.pubsub == nil {
		return fmt.Errorf("%w: no MQTT client configured", pkgerrors.ErrInvalidConfiguration)
	}

	return svc.pubsub.Subscribe(ctx, svc.controlTopic(), HandleControl(ctx, svc, svc.logger))
}

// HandleControl dispatches commands of the form
// {"command":"start"|"stop"|"reset"|"max_epochs","max_epochs":n} to svc.
func HandleControl(ctx context.Context, svc Service, logger *slog.Logger) mqtt.Handler {
	return func(topic string, msg map[string]any) error {
		cmd, ok := msg["command"].(string)
		if !ok {
			return fmt.Errorf("%w: missing command", pkgerrors.ErrInvalidData)
		}

		var err error
		switch cmd {
		case cmdStart:
			_, err = svc.Start(ctx)
		case cmdStop:
			_, err = svc.Stop(ctx)
		case cmdReset:
			_, err = svc.Reset(ctx)
		case cmdMaxEpochs:
			// JSON numbers decode as float64.
			n, ok := msg[cmdMaxEpochs].(float64)
			if !ok {
				return fmt.Errorf("%w: max_epochs must be a number", pkgerrors.ErrInvalidData)
			}
			_, err = svc.SetMaxEpochs(ctx, int(n))
		default:
			return fmt.Errorf("%w: %q", errUnknownCommand, cmd)
		}
		if err != nil {
			return err
		}

		logger.InfoContext(ctx, "control command applied", slog.String("topic", topic), slog.String("command", cmd))

		return nil
	}
}
