package middleware

import (
	"context"
	"log/slog"
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/trainer"
)

var _ trainer.Service = (*loggingMiddleware)(nil)

type loggingMiddleware struct {
	logger *slog.Logger
	svc    trainer.Service
}

func Logging(logger *slog.Logger, svc trainer.Service) trainer.Service {
	return &loggingMiddleware{
		logger: logger,
		svc:    svc,
	}
}

func statusGroup(st trainer.Status) slog.Attr {
	return slog.Group("training",
		slog.String("run_id", st.RunID),
		slog.String("state", st.State.String()),
		slog.Int("epoch", st.Epoch),
		slog.Int("max_epochs", st.MaxEpochs),
	)
}

func (lm *loggingMiddleware) Start(ctx context.Context) (st trainer.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			statusGroup(st),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Start training failed", args...)

			return
		}
		lm.logger.Info("Start training completed successfully", args...)
	}(time.Now())

	return lm.svc.Start(ctx)
}

func (lm *loggingMiddleware) Stop(ctx context.Context) (st trainer.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			statusGroup(st),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Stop training failed", args...)

			return
		}
		lm.logger.Info("Stop training completed successfully", args...)
	}(time.Now())

	return lm.svc.Stop(ctx)
}

func (lm *loggingMiddleware) Reset(ctx context.Context) (st trainer.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			statusGroup(st),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Reset training failed", args...)

			return
		}
		lm.logger.Info("Reset training completed successfully", args...)
	}(time.Now())

	return lm.svc.Reset(ctx)
}

func (lm *loggingMiddleware) SetMaxEpochs(ctx context.Context, n int) (applied int, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("max_epochs",
				slog.Int("requested", n),
				slog.Int("applied", applied),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Set max epochs failed", args...)

			return
		}
		lm.logger.Info("Set max epochs completed successfully", args...)
	}(time.Now())

	return lm.svc.SetMaxEpochs(ctx, n)
}

func (lm *loggingMiddleware) Status(ctx context.Context) (st trainer.Status, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get training status failed", args...)

			return
		}
		lm.logger.Debug("Get training status completed successfully", args...)
	}(time.Now())

	return lm.svc.Status(ctx)
}

func (lm *loggingMiddleware) Peers(ctx context.Context) (peers []peer.Snapshot, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("peers", len(peers)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List peers failed", args...)

			return
		}
		lm.logger.Debug("List peers completed successfully", args...)
	}(time.Now())

	return lm.svc.Peers(ctx)
}

func (lm *loggingMiddleware) Events(ctx context.Context) (events []network.Event, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("events", len(events)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List network events failed", args...)

			return
		}
		lm.logger.Debug("List network events completed successfully", args...)
	}(time.Now())

	return lm.svc.Events(ctx)
}

func (lm *loggingMiddleware) History(ctx context.Context) (records []history.Record, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Int("records", len(records)),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get history failed", args...)

			return
		}
		lm.logger.Debug("Get history completed successfully", args...)
	}(time.Now())

	return lm.svc.History(ctx)
}

func (lm *loggingMiddleware) Stats(ctx context.Context) (stats history.Stats, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("stats",
				slog.Float64("final_accuracy", stats.FinalAccuracy),
				slog.String("convergence", string(stats.Convergence)),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get stats failed", args...)

			return
		}
		lm.logger.Debug("Get stats completed successfully", args...)
	}(time.Now())

	return lm.svc.Stats(ctx)
}

func (lm *loggingMiddleware) ListRuns(ctx context.Context, offset, limit uint64) (page run.RunPage, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Uint64("offset", offset),
			slog.Uint64("limit", limit),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("List runs failed", args...)

			return
		}
		lm.logger.Info("List runs completed successfully", args...)
	}(time.Now())

	return lm.svc.ListRuns(ctx, offset, limit)
}

func (lm *loggingMiddleware) GetRun(ctx context.Context, id string) (r run.Run, err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
			slog.Group("run",
				slog.String("id", id),
			),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Get run failed", args...)

			return
		}
		lm.logger.Info("Get run completed successfully", args...)
	}(time.Now())

	return lm.svc.GetRun(ctx, id)
}

func (lm *loggingMiddleware) Subscribe(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Subscribe to control topic failed", args...)

			return
		}
		lm.logger.Info("Subscribe to control topic completed successfully", args...)
	}(time.Now())

	return lm.svc.Subscribe(ctx)
}

func (lm *loggingMiddleware) Shutdown(ctx context.Context) (err error) {
	defer func(begin time.Time) {
		args := []any{
			slog.String("duration", time.Since(begin).String()),
		}
		if err != nil {
			args = append(args, slog.Any("error", err))
			lm.logger.Warn("Shutdown failed", args...)

			return
		}
		lm.logger.Info("Shutdown completed successfully", args...)
	}(time.Now())

	return lm.svc.Shutdown(ctx)
}
