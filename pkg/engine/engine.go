// Package engine runs the federated gossip simulation one round at a time.
// A Simulation is deterministic given its seed and configuration and is
// not safe for concurrent use.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/absmach/mltorrent/pkg/dataset"
	"github.com/absmach/mltorrent/pkg/fl"
	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/network"
	"github.com/absmach/mltorrent/pkg/peer"
	"github.com/absmach/mltorrent/pkg/random"
	"golang.org/x/sync/errgroup"
)

const (
	minDataSharedKB    = 200
	dataSharedSpreadKB = 300
	minFragments       = 3
	fragmentsSpread    = 8
)

// Totals are synthetic running counters shown alongside training.
type Totals struct {
	DataSharedKB   int `json:"data_shared_kb"`
	ModelFragments int `json:"model_fragments"`
}

// Round is everything one Step committed.
type Round struct {
	Record     history.Record  `json:"record"`
	Active     []int           `json:"active"`
	Gossiped   []int           `json:"gossiped"`
	Aggregated bool            `json:"aggregated"`
	Events     []network.Event `json:"events"`
	Totals     Totals          `json:"totals"`
}

type Option func(*Simulation)

func WithClock(now func() time.Time) Option {
	return func(s *Simulation) {
		s.now = now
	}
}

func WithAggregator(a fl.Aggregator) Option {
	return func(s *Simulation) {
		s.aggregator = a
	}
}

type Simulation struct {
	cfg        Config
	seed       uint64
	rng        random.Source
	now        func() time.Time
	aggregator fl.Aggregator

	train  []dataset.Sample
	test   []dataset.Sample
	peers  []*peer.Peer
	global fl.Parameters
	eval   fl.Evaluation

	history *history.Recorder
	events  *network.Log
	totals  Totals
	epoch   int
}

// New draws the datasets, the global model and the peers, in that order,
// and records the pre-training snapshot as epoch 0.
func New(cfg Config, seed uint64, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:        cfg,
		seed:       seed,
		rng:        random.New(seed),
		now:        time.Now,
		aggregator: fl.NewFedAvgAggregator(),
		history:    history.NewRecorder(),
		events:     network.NewLog(cfg.EventWindow),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.train = dataset.Draw(cfg.Dataset, cfg.TrainSamples, cfg.Margin, s.rng)
	s.test = dataset.Draw(cfg.Dataset, cfg.TestSamples, cfg.Margin, s.rng)

	shards, err := dataset.Partition(s.train, cfg.Peers)
	if err != nil {
		return nil, err
	}

	s.global = fl.NewModel(s.rng).Parameters()

	now := s.now()
	s.peers = make([]*peer.Peer, len(shards))
	for i, shard := range shards {
		s.peers[i] = peer.New(i+1, shard, s.rng, now)
	}

	s.eval = s.evaluateGlobal()
	if err := s.history.Append(s.record()); err != nil {
		return nil, err
	}

	return s, nil
}

// Step executes one full round: local training, aggregation, global
// evaluation, gossip, status flips, synthetic traffic, totals and history.
// Every eligibility decision in the round uses the pre-flip statuses.
func (s *Simulation) Step() (Round, error) {
	now := s.now()
	active := s.activePeers()

	if err := s.trainPeers(active, now); err != nil {
		return Round{}, err
	}
	for _, p := range active {
		p.RefreshRates(s.rng)
	}

	aggregated, err := s.aggregate(active)
	if err != nil {
		return Round{}, err
	}
	s.eval = s.evaluateGlobal()

	gossiped := s.gossip(active)
	s.flipStatuses()

	ids := peerIDs(active)
	events := network.Generate(ids, s.rng, now)
	s.events.Append(events...)

	s.totals.DataSharedKB += minDataSharedKB + s.rng.IntN(dataSharedSpreadKB)
	s.totals.ModelFragments += minFragments + s.rng.IntN(fragmentsSpread)

	s.epoch++
	rec := s.record()
	if err := s.history.Append(rec); err != nil {
		return Round{}, err
	}

	return Round{
		Record:     rec,
		Active:     ids,
		Gossiped:   gossiped,
		Aggregated: aggregated,
		Events:     events,
		Totals:     s.totals,
	}, nil
}

// trainPeers trains every active peer and returns only once all of them
// finished, so aggregation never observes a peer mid-step.
func (s *Simulation) trainPeers(active []*peer.Peer, now time.Time) error {
	if s.cfg.Workers < 2 {
		for _, p := range active {
			p.Train(s.cfg.LearningRate, now)
		}

		return nil
	}

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for _, p := range active {
		g.Go(func() error {
			p.Train(s.cfg.LearningRate, now)

			return nil
		})
	}

	return g.Wait()
}

// aggregate replaces the global parameters with the contribution-weighted
// average of the active peers. An empty active set leaves them unchanged.
func (s *Simulation) aggregate(active []*peer.Peer) (bool, error) {
	updates := make([]fl.Update, len(active))
	for i, p := range active {
		updates[i] = p.Update()
	}

	global, err := s.aggregator.Aggregate(updates)
	switch {
	case errors.Is(err, fl.ErrNoUpdates):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("aggregate round %d: %w", s.epoch+1, err)
	}
	s.global = global

	return true, nil
}

func (s *Simulation) gossip(active []*peer.Peer) []int {
	var gossiped []int
	for _, p := range active {
		if !fl.Participates(s.rng.Float64(), s.cfg.GossipProbability) {
			continue
		}
		p.SetParameters(fl.Blend(p.Parameters(), s.global, s.cfg.BlendFactor))
		gossiped = append(gossiped, p.ID)
	}

	return gossiped
}

func (s *Simulation) flipStatuses() {
	for _, p := range s.peers {
		p.Status = peer.NextStatus(p.Status, s.rng.Float64(), s.cfg.FlipProbability)
	}
}

func (s *Simulation) evaluateGlobal() fl.Evaluation {
	return fl.NewModelFromParameters(s.global).Evaluate(s.test)
}

func (s *Simulation) record() history.Record {
	sum := 0.0
	for _, p := range s.peers {
		sum += p.Accuracy
	}

	return history.Record{
		Epoch:           s.epoch,
		GlobalAccuracy:  s.eval.Accuracy,
		GlobalLoss:      s.eval.Loss,
		AvgPeerAccuracy: sum / float64(len(s.peers)),
	}
}

func (s *Simulation) activePeers() []*peer.Peer {
	var active []*peer.Peer
	for _, p := range s.peers {
		if p.Active() {
			active = append(active, p)
		}
	}

	return active
}

func peerIDs(peers []*peer.Peer) []int {
	ids := make([]int, len(peers))
	for i, p := range peers {
		ids[i] = p.ID
	}

	return ids
}
