package middleware

import (
	"context"
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/trainer"
	"github.com/go-kit/kit/metrics"
)

var _ trainer.Service = (*metricsMiddleware)(nil)

type metricsMiddleware struct {
	counter metrics.Counter
	latency metrics.Histogram
	svc     trainer.Service
}

func Metrics(counter metrics.Counter, latency metrics.Histogram, svc trainer.Service) trainer.Service {
	return &metricsMiddleware{
		counter: counter,
		latency: latency,
		svc:     svc,
	}
}

func (mm *metricsMiddleware) observe(method string, begin time.Time) {
	mm.counter.With("method", method).Add(1)
	mm.latency.With("method", method).Observe(time.Since(begin).Seconds())
}

func (mm *metricsMiddleware) Start(ctx context.Context) (trainer.Status, error) {
	defer mm.observe("start", time.Now())

	return mm.svc.Start(ctx)
}

func (mm *metricsMiddleware) Stop(ctx context.Context) (trainer.Status, error) {
	defer mm.observe("stop", time.Now())

	return mm.svc.Stop(ctx)
}

func (mm *metricsMiddleware) Reset(ctx context.Context) (trainer.Status, error) {
	defer mm.observe("reset", time.Now())

	return mm.svc.Reset(ctx)
}

func (mm *metricsMiddleware) SetMaxEpochs(ctx context.Context, n int) (int, error) {
	defer mm.observe("set-max-epochs", time.Now())

	return mm.svc.SetMaxEpochs(ctx, n)
}

func (mm *metricsMiddleware) Status(ctx context.Context) (trainer.Status, error) {
	defer mm.observe("status", time.Now())

	return mm.svc.Status(ctx)
}

func (mm *metricsMiddleware) Peers(ctx context.Context) ([]peer.Snapshot, error) {
	defer mm.observe("peers", time.Now())

	return mm.svc.Peers(ctx)
}

func (mm *metricsMiddleware) Events(ctx context.Context) ([]network.Event, error) {
	defer mm.observe("events", time.Now())

	return mm.svc.Events(ctx)
}

func (mm *metricsMiddleware) History(ctx context.Context) ([]history.Record, error) {
	defer mm.observe("history", time.Now())

	return mm.svc.History(ctx)
}

func (mm *metricsMiddleware) Stats(ctx context.Context) (history.Stats, error) {
	defer mm.observe("stats", time.Now())

	return mm.svc.Stats(ctx)
}

func (mm *metricsMiddleware) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	defer mm.observe("list-runs", time.Now())

	return mm.svc.ListRuns(ctx, offset, limit)
}

func (mm *metricsMiddleware) GetRun(ctx context.Context, id string) (run.Run, error) {
	defer mm.observe("get-run", time.Now())

	return mm.svc.GetRun(ctx, id)
}

func (mm *metricsMiddleware) Subscribe(ctx context.Context) error {
	defer mm.observe("subscribe", time.Now())

	return mm.svc.Subscribe(ctx)
}

func (mm *metricsMiddleware) Shutdown(ctx context.Context) error {
	defer mm.observe("shutdown", time.Now())

	return mm.svc.Shutdown(ctx)
}
