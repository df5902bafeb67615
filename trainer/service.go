package trainer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/absmach/mltorrent/pkg/engine"
	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/mqtt"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/random"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/pkg/storage"
)

const archiveTimeout = 10 * time.Second

type service struct {
	cfg       Config
	runs      storage.RunRepository
	pubsub    mqtt.PubSub
	notifiers []Notifier
	logger    *slog.Logger
	seeder    random.Source
	now       func() time.Time
	ticker    func(time.Duration) (<-chan time.Time, func())

	// lifecycle serialises Start, Stop, Reset and Shutdown.
	lifecycle sync.Mutex

	// mu guards everything below and is held for a whole round, so readers
	// never observe a partially applied round.
	mu            sync.RWMutex
	sim           *engine.Simulation
	state         State
	runID         string
	maxEpochs     int
	startedAt     time.Time
	finishedAt    time.Time
	archivedEpoch int
	cancel        context.CancelFunc
	done          chan struct{}
}

// NewService builds the first simulation right away, so configuration
// errors surface here rather than on Start. pubsub may be nil when remote
// control is not used.
func NewService(cfg Config, runs storage.RunRepository, pubsub mqtt.PubSub, logger *slog.Logger, notifiers ...Notifier) (Service, error) {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.MaxEpochs == 0 {
		cfg.MaxEpochs = DefaultEpochs
	}

	svc := &service{
		cfg:       cfg,
		runs:      runs,
		pubsub:    pubsub,
		notifiers: notifiers,
		logger:    logger,
		seeder:    random.New(cfg.Seed),
		now:       time.Now,
		ticker:    newTicker,
		maxEpochs: ClampEpochs(cfg.MaxEpochs),
	}

	if err := svc.rebuild(); err != nil {
		return nil, err
	}

	return svc, nil
}

func (svc *service) Start(_ context.Context) (Status, error) {
	svc.lifecycle.Lock()
	defer svc.lifecycle.Unlock()

	svc.mu.RLock()
	running := svc.state == Running
	svc.mu.RUnlock()
	if !running {
		// Reap a loop that ended on completion.
		svc.halt()
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state == Running || svc.sim.Epoch() >= svc.maxEpochs {
		return svc.status(), nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	svc.state = Running
	svc.startedAt = svc.now()
	svc.finishedAt = time.Time{}
	svc.cancel = cancel
	svc.done = make(chan struct{})

	go svc.loop(runCtx, cancel, svc.done)

	svc.logger.Info("training started",
		slog.String("run_id", svc.runID),
		slog.Int("epoch", svc.sim.Epoch()),
		slog.Int("max_epochs", svc.maxEpochs),
	)

	return svc.status(), nil
}

func (svc *service) Stop(_ context.Context) (Status, error) {
	svc.lifecycle.Lock()
	defer svc.lifecycle.Unlock()

	svc.halt()

	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state == Running {
		svc.state = Idle
		svc.finishedAt = svc.now()
		svc.logger.Info("training stopped", slog.String("run_id", svc.runID), slog.Int("epoch", svc.sim.Epoch()))
	}

	return svc.status(), nil
}

func (svc *service) Reset(ctx context.Context) (Status, error) {
	svc.lifecycle.Lock()
	defer svc.lifecycle.Unlock()

	svc.halt()

	svc.mu.Lock()
	if svc.state == Running {
		svc.state = Idle
		svc.finishedAt = svc.now()
	}
	pending, ok := svc.pendingArchive()
	previous := svc.runID
	if err := svc.rebuild(); err != nil {
		svc.mu.Unlock()

		return Status{}, err
	}
	st := svc.status()
	svc.mu.Unlock()

	if ok {
		svc.archive(ctx, pending)
	}

	svc.logger.Info("training reset", slog.String("previous_run_id", previous), slog.String("run_id", st.RunID))

	return st, nil
}

func (svc *service) SetMaxEpochs(_ context.Context, n int) (int, error) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if svc.state == Running {
		return 0, pkgerrors.ErrRunning
	}
	svc.maxEpochs = ClampEpochs(n)

	return svc.maxEpochs, nil
}

func (svc *service) Status(_ context.Context) (Status, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.status(), nil
}

func (svc *service) Peers(_ context.Context) ([]peer.Snapshot, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.sim.Peers(), nil
}

func (svc *service) Events(_ context.Context) ([]network.Event, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.sim.Events(), nil
}

func (svc *service) History(_ context.Context) ([]history.Record, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	return svc.sim.History(), nil
}

func (svc *service) Stats(_ context.Context) (history.Stats, error) {
	svc.mu.RLock()
	defer svc.mu.RUnlock()

	stats, ok := svc.sim.Stats()
	if !ok {
		return history.Stats{}, pkgerrors.ErrNotFound
	}

	return stats, nil
}

func (svc *service) ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error) {
	runs, total, err := svc.runs.List(ctx, offset, limit)
	if err != nil {
		return run.RunPage{}, err
	}

	return run.RunPage{
		Offset: offset,
		Limit:  limit,
		Total:  total,
		Runs:   runs,
	}, nil
}

func (svc *service) GetRun(ctx context.Context, id string) (run.Run, error) {
	if id == "" {
		return run.Run{}, pkgerrors.ErrEmptyKey
	}

	return svc.runs.Get(ctx, id)
}

func (svc *service) Shutdown(ctx context.Context) error {
	svc.lifecycle.Lock()
	defer svc.lifecycle.Unlock()

	svc.halt()

	svc.mu.Lock()
	if svc.state == Running {
		svc.state = Idle
		svc.finishedAt = svc.now()
	}
	pending, ok := svc.pendingArchive()
	svc.mu.Unlock()

	if ok {
		svc.archive(ctx, pending)
	}

	if svc.pubsub != nil {
		if err := svc.pubsub.Unsubscribe(ctx, svc.controlTopic()); err != nil {
			svc.logger.Warn("failed to unsubscribe from control topic", slog.Any("error", err))
		}
	}

	return nil
}

// halt cancels the tick loop and waits for it to exit. It must be called
// without holding mu.
func (svc *service) halt() {
	svc.mu.Lock()
	cancel, done := svc.cancel, svc.done
	svc.cancel, svc.done = nil, nil
	svc.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (svc *service) loop(ctx context.Context, cancel context.CancelFunc, done chan struct{}) {
	defer close(done)

	ticks, stop := svc.ticker(svc.cfg.TickInterval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticks:
			update, finished, ok := svc.tick(ctx, cancel)
			if !ok {
				continue
			}
			svc.notify(context.WithoutCancel(ctx), update)
			if finished.ID != "" {
				svc.archive(context.Background(), finished)

				return
			}
		}
	}
}

func newTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)

	return t.C, t.Stop
}

// tick runs one round under mu. It returns the archived run when the round
// exhausted the epoch budget.
func (svc *service) tick(ctx context.Context, cancel context.CancelFunc) (RoundUpdate, run.Run, bool) {
	svc.mu.Lock()
	defer svc.mu.Unlock()

	if ctx.Err() != nil || svc.state != Running {
		return RoundUpdate{}, run.Run{}, false
	}

	round, err := svc.sim.Step()
	if err != nil {
		svc.logger.Error("training round failed", slog.String("run_id", svc.runID), slog.Any("error", err))
		svc.state = Idle
		svc.finishedAt = svc.now()
		cancel()

		return RoundUpdate{}, run.Run{}, false
	}

	svc.logger.Debug("round committed",
		slog.String("run_id", svc.runID),
		slog.Int("epoch", round.Record.Epoch),
		slog.Float64("global_accuracy", round.Record.GlobalAccuracy),
		slog.Float64("global_loss", round.Record.GlobalLoss),
		slog.Int("active_peers", len(round.Active)),
	)

	var finished run.Run
	if svc.sim.Epoch() >= svc.maxEpochs {
		svc.state = Completed
		svc.finishedAt = svc.now()
		cancel()
		finished, _ = svc.pendingArchive()
		svc.logger.Info("training completed", slog.String("run_id", svc.runID), slog.Int("epoch", svc.sim.Epoch()))
	}

	return RoundUpdate{
		RunID:  svc.runID,
		State:  svc.state,
		Record: round.Record,
		Active: round.Active,
		Events: round.Events,
		Totals: round.Totals,
	}, finished, true
}

func (svc *service) notify(ctx context.Context, update RoundUpdate) {
	for _, n := range svc.notifiers {
		if err := n.Notify(ctx, update); err != nil {
			svc.logger.Warn("failed to deliver round update", slog.Int("epoch", update.Record.Epoch), slog.Any("error", err))
		}
	}
}

// rebuild replaces the simulation with a fresh one seeded from the seeder.
// Callers hold mu, except NewService.
func (svc *service) rebuild() error {
	seed := svc.seeder.Uint64()
	sim, err := engine.New(svc.cfg.Engine, seed)
	if err != nil {
		return err
	}

	svc.sim = sim
	svc.state = Idle
	svc.runID = run.NewID()
	svc.startedAt = time.Time{}
	svc.finishedAt = time.Time{}
	svc.archivedEpoch = 0

	return nil
}

// pendingArchive snapshots the current run if it advanced past what was
// last archived. Callers hold mu.
func (svc *service) pendingArchive() (run.Run, bool) {
	epoch := svc.sim.Epoch()
	if epoch == 0 || epoch == svc.archivedEpoch {
		return run.Run{}, false
	}
	svc.archivedEpoch = epoch

	records := svc.sim.History()
	stats, _ := history.Analyze(records)

	return run.Run{
		ID:         svc.runID,
		Seed:       svc.sim.Seed(),
		State:      svc.state.String(),
		Dataset:    string(svc.cfg.Engine.Dataset),
		Peers:      svc.cfg.Engine.Peers,
		Epochs:     epoch,
		MaxEpochs:  svc.maxEpochs,
		StartedAt:  svc.startedAt,
		FinishedAt: svc.finishedAt,
		Records:    records,
		Stats:      stats,
	}, true
}

func (svc *service) archive(ctx context.Context, r run.Run) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := svc.runs.Save(ctx, r); err != nil {
		svc.logger.Warn("failed to archive run", slog.String("run_id", r.ID), slog.Any("error", err))

		return
	}
	svc.logger.Info("run archived", slog.String("run_id", r.ID), slog.Int("epochs", r.Epochs))
}

// status must be called with mu held.
func (svc *service) status() Status {
	eval := svc.sim.GlobalEvaluation()

	return Status{
		State:          svc.state,
		RunID:          svc.runID,
		Seed:           svc.sim.Seed(),
		Epoch:          svc.sim.Epoch(),
		MaxEpochs:      svc.maxEpochs,
		GlobalAccuracy: eval.Accuracy,
		GlobalLoss:     eval.Loss,
		ActivePeers:    svc.sim.ActiveCount(),
		TotalPeers:     svc.cfg.Engine.Peers,
		Totals:         svc.sim.Totals(),
		StartedAt:      svc.startedAt,
		FinishedAt:     svc.finishedAt,
	}
}
