package middleware

import (
	"context"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/trainer"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var _ trainer.Service = (*tracing)(nil)

type tracing struct {
	tracer trace.Tracer
	svc    trainer.Service
}

func Tracing(tracer trace.Tracer, svc trainer.Service) trainer.Service {
	return &tracing{tracer, svc}
}

func (tm *tracing) Start(ctx context.Context) (trainer.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "start-training")
	defer span.End()

	return tm.svc.Start(ctx)
}

func (tm *tracing) Stop(ctx context.Context) (trainer.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "stop-training")
	defer span.End()

	return tm.svc.Stop(ctx)
}

func (tm *tracing) Reset(ctx context.Context) (trainer.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "reset-training")
	defer span.End()

	return tm.svc.Reset(ctx)
}

func (tm *tracing) SetMaxEpochs(ctx context.Context, n int) (int, error) {
	ctx, span := tm.tracer.Start(ctx, "set-max-epochs", trace.WithAttributes(
		attribute.Int("max_epochs", n),
	))
	defer span.End()

	return tm.svc.SetMaxEpochs(ctx, n)
}

func (tm *tracing) Status(ctx context.Context) (trainer.Status, error) {
	ctx, span := tm.tracer.Start(ctx, "training-status")
	defer span.End()

	return tm.svc.Status(ctx)
}

func (tm *tracing) Peers(ctx context.Context) ([]peer.Snapshot, error) {
	ctx, span := tm.tracer.Start(ctx, "list-peers")
	defer span.End()

	return tm.svc.Peers(ctx)
}

func (tm *tracing) Events(ctx context.Context) ([]network.Event, error) {
	ctx, span := tm.tracer.Start(ctx, "list-events")
	defer span.End()

	return tm.svc.Events(ctx)
}

func (tm *tracing) History(ctx context.Context) ([]history.Record, error) {
	ctx, span := tm.tracer.Start(ctx, "training-history")
	defer span.End()

	return tm.svc.History(ctx)
}

func (tm *tracing) Stats(ctx context.Context) (history.Stats, error) {
	ctx, span := tm.tracer.Start(ctx, "training-stats")
	defer span.End()

	return tm.svc.Stats(ctx)
}

func (tm *tracing) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	ctx, span := tm.tracer.Start(ctx, "list-runs", trace.WithAttributes(
		attribute.Int64("offset", int64(offset)),
		attribute.Int64("limit", int64(limit)),
	))
	defer span.End()

	return tm.svc.ListRuns(ctx, offset, limit)
}

func (tm *tracing) GetRun(ctx context.Context, id string) (run.Run, error) {
	ctx, span := tm.tracer.Start(ctx, "get-run", trace.WithAttributes(
		attribute.String("id", id),
	))
	defer span.End()

	return tm.svc.GetRun(ctx, id)
}

func (tm *tracing) Subscribe(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "subscribe")
	defer span.End()

	return tm.svc.Subscribe(ctx)
}

func (tm *tracing) Shutdown(ctx context.Context) error {
	ctx, span := tm.tracer.Start(ctx, "shutdown")
	defer span.End()

	return tm.svc.Shutdown(ctx)
}
