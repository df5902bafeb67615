package engine

import (
	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
)

func (s *Simulation) Seed() uint64 {
	return s.seed
}

func (s *Simulation) Config() Config {
	return s.cfg
}

func (s *Simulation) Epoch() int {
	return s.epoch
}

func (s *Simulation) Global() fl.Parameters {
	return s.global
}

func (s *Simulation) GlobalEvaluation() fl.Evaluation {
	return s.eval
}

func (s *Simulation) Totals() Totals {
	return s.totals
}

func (s *Simulation) ActiveCount() int {
	return len(s.activePeers())
}

func (s *Simulation) Peers() []peer.Snapshot {
	out := make([]peer.Snapshot, len(s.peers))
	for i, p := range s.peers {
		out[i] = p.Snapshot()
	}

	return out
}

func (s *Simulation) Events() []network.Event {
	return s.events.Events()
}

func (s *Simulation) History() []history.Record {
	return s.history.Records()
}

func (s *Simulation) Stats() (history.Stats, bool) {
	return history.Analyze(s.history.Records())
}

// TrainingSet returns a copy of the full training set in shard order.
func (s *Simulation) TrainingSet() []dataset.Sample {
	out := make([]dataset.Sample, len(s.train))
	copy(out, s.train)

	return out
}

// Shards returns a copy of every peer's shard, ordered by peer id.
func (s *Simulation) Shards() [][]dataset.Sample {
	out := make([][]dataset.Sample, len(s.peers))
	for i, p := range s.peers {
		shard := make([]dataset.Sample, len(p.Shard))
		copy(shard, p.Shard)
		out[i] = shard
	}

	return out
}
