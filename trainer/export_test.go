package trainer

import (
	"log/slog"
	"time"

	"github.com/absmach/mltorrent/pkg/mqtt"
	"github.com/absmach/mltorrent/pkg/storage"
)

// NewManualService returns a service whose rounds are driven by sends on
// ticks instead of a wall clock ticker.
func NewManualService(cfg Config, runs storage.RunRepository, pubsub mqtt.PubSub, ticks <-chan time.Time, notifiers ...Notifier) (Service, error) {
	s, err := NewService(cfg, runs, pubsub, slog.Default(), notifiers...)
	if err != nil {
		return nil, err
	}
	svc := s.(*service)
	svc.ticker = func(time.Duration) (<-chan time.Time, func()) {
		return ticks, func() {}
	}

	return svc, nil
}
