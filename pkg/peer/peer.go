package peer

import (
	"fmt"
	"time"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/random"
)

const (
	MinContribution = 0.8
	MaxContribution = 1.0

	DefaultFlipProbability = 0.05

	minTransferRate = 50.0
	maxTransferRate = 150.0
)

var names = []string{
	"SmartHome-Berlin",
	"IoT-Munich",
	"EdgeDevice-Hamburg",
	"SmartCity-Frankfurt",
	"Home-Stuttgart",
}

// Name returns the display name of the peer with the given 1-based id.
func Name(id int) string {
	if id >= 1 && id <= len(names) {
		return names[id-1]
	}

	return fmt.Sprintf("Peer-%d", id)
}

// Peer owns a data shard, a local model and liveness metadata. It is not
// safe for concurrent use; the engine serialises access.
type Peer struct {
	ID           int
	Name         string
	Shard        []dataset.Sample
	Accuracy     float64
	Loss         float64
	Status       Status
	Contribution float64
	TotalUpdates int
	LastUpdate   time.Time
	UploadKBps   float64
	DownloadKBps float64

	model *fl.Model
}

// New creates an active peer. The model is drawn before the contribution
// weight, and the initial accuracy is measured on the peer's own shard.
func New(id int, shard []dataset.Sample, rng random.Source, now time.Time) *Peer {
	p := &Peer{
		ID:     id,
		Name:   Name(id),
		Shard:  shard,
		Status: Active,
		model:  fl.NewModel(rng),
	}
	p.Contribution = random.Uniform(rng, MinContribution, MaxContribution)
	p.LastUpdate = now

	ev := p.model.Evaluate(shard)
	p.Accuracy, p.Loss = ev.Accuracy, ev.Loss

	return p
}

func (p *Peer) Active() bool {
	return p.Status == Active
}

// Train runs one local gradient step and re-evaluates on the shard. It is
// a no-op for peers that are not active.
func (p *Peer) Train(lr float64, now time.Time) bool {
	if !p.Active() {
		return false
	}

	p.model.Train(p.Shard, lr)
	ev := p.model.Evaluate(p.Shard)
	p.Accuracy, p.Loss = ev.Accuracy, ev.Loss
	p.TotalUpdates++
	p.LastUpdate = now

	return true
}

// RefreshRates draws the cosmetic transfer rates shown for the peer.
func (p *Peer) RefreshRates(rng random.Source) {
	p.UploadKBps = random.Uniform(rng, minTransferRate, maxTransferRate)
	p.DownloadKBps = random.Uniform(rng, minTransferRate, maxTransferRate)
}

func (p *Peer) Parameters() fl.Parameters {
	return p.model.Parameters()
}

func (p *Peer) SetParameters(params fl.Parameters) {
	p.model.SetParameters(params)
}

func (p *Peer) Update() fl.Update {
	return fl.Update{
		PeerID:     p.ID,
		Parameters: p.Parameters(),
		Weight:     p.Contribution,
	}
}

// Snapshot is the read-only view handed to callers outside the engine.
type Snapshot struct {
	ID           int           `json:"id"`
	Name         string        `json:"name"`
	ShardSize    int           `json:"shard_size"`
	Accuracy     float64       `json:"accuracy"`
	Loss         float64       `json:"loss"`
	Status       Status        `json:"status"`
	Trust        float64       `json:"trust"`
	UploadKBps   float64       `json:"upload_kbps"`
	DownloadKBps float64       `json:"download_kbps"`
	TotalUpdates int           `json:"total_updates"`
	LastUpdate   time.Time     `json:"last_update"`
	Parameters   fl.Parameters `json:"parameters"`
}

func (p *Peer) Snapshot() Snapshot {
	return Snapshot{
		ID:           p.ID,
		Name:         p.Name,
		ShardSize:    len(p.Shard),
		Accuracy:     p.Accuracy,
		Loss:         p.Loss,
		Status:       p.Status,
		Trust:        p.Contribution,
		UploadKBps:   p.UploadKBps,
		DownloadKBps: p.DownloadKBps,
		TotalUpdates: p.TotalUpdates,
		LastUpdate:   p.LastUpdate,
		Parameters:   p.Parameters(),
	}
}
