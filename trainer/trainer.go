package trainer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/absmach/mltorrent/pkg/engine"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/run"
)

const (
	MinEpochs     = 1
	MaxEpochs     = 200
	DefaultEpochs = 50

	DefaultTickInterval = 1500 * time.Millisecond
)

type State uint8

const (
	Idle State = iota
	Running
	Completed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "idle":
		*s = Idle
	case "running":
		*s = Running
	case "completed":
		*s = Completed
	default:
		return fmt.Errorf("unknown training state %q", str)
	}

	return nil
}

type Config struct {
	Engine       engine.Config
	Seed         uint64
	TickInterval time.Duration
	MaxEpochs    int
	// Topic is the MQTT base topic; rounds go to <Topic>/rounds and commands
	// are read from <Topic>/control.
	Topic string
}

type Status struct {
	State          State         `json:"state"`
	RunID          string        `json:"run_id"`
	Seed           uint64        `json:"seed"`
	Epoch          int           `json:"epoch"`
	MaxEpochs      int           `json:"max_epochs"`
	GlobalAccuracy float64       `json:"global_accuracy"`
	GlobalLoss     float64       `json:"global_loss"`
	ActivePeers    int           `json:"active_peers"`
	TotalPeers     int           `json:"total_peers"`
	Totals         engine.Totals `json:"totals"`
	StartedAt      time.Time     `json:"started_at,omitzero"`
	FinishedAt     time.Time     `json:"finished_at,omitzero"`
}

// RoundUpdate is published after every committed round.
type RoundUpdate struct {
	RunID  string          `json:"run_id"`
	State  State           `json:"state"`
	Record history.Record  `json:"record"`
	Active []int           `json:"active"`
	Events []network.Event `json:"events"`
	Totals engine.Totals   `json:"totals"`
}

type Notifier interface {
	Notify(ctx context.Context, update RoundUpdate) error
}

type Service interface {
	// Start begins ticking. It is a no-op while running or once the epoch
	// budget is spent.
	Start(ctx context.Context) (Status, error)
	// Stop halts ticking between rounds.
	Stop(ctx context.Context) (Status, error)
	// Reset stops and rebuilds every piece of simulation state.
	Reset(ctx context.Context) (Status, error)
	// SetMaxEpochs clamps n to [MinEpochs, MaxEpochs] and returns the value
	// applied. It fails with ErrRunning while training runs.
	SetMaxEpochs(ctx context.Context, n int) (int, error)

	Status(ctx context.Context) (Status, error)
	Peers(ctx context.Context) ([]peer.Snapshot, error)
	Events(ctx context.Context) ([]network.Event, error)
	History(ctx context.Context) ([]history.Record, error)
	Stats(ctx context.Context) (history.Stats, error)

	ListRuns(ctx context.Context, offset, limit uint64) (run.RunPage, error)
	GetRun(ctx context.Context, id string) (run.Run, error)

	// Subscribe listens for remote control commands over MQTT.
	Subscribe(ctx context.Context) error
	// Shutdown stops training and archives the current run.
	Shutdown(ctx context.Context) error
}

func ClampEpochs(n int) int {
	return max(MinEpochs, min(n, MaxEpochs))
}
