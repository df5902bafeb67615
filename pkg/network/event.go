// Package network produces the synthetic peer-to-peer transfer log shown
// alongside training. Nothing is transmitted.
package network

import (
	"time"

	"github.com/absmach/mltorrent/pkg/random"
)

const (
	DefaultWindow = 15

	minBatch     = 2
	batchSpread  = 3
	modelShare   = 0.6
	minSizeKB    = 50
	sizeSpreadKB = 150
)

type Kind string

const (
	Model    Kind = "model"
	Gradient Kind = "gradient"
)

type Event struct {
	From      int       `json:"from"`
	To        int       `json:"to"`
	Kind      Kind      `json:"kind"`
	SizeKB    int       `json:"size_kb"`
	Timestamp time.Time `json:"timestamp"`
}

// Generate draws a batch of 2-4 events between distinct peers of active.
// Fewer than two active peers produce no events and consume no draws.
func Generate(active []int, rng random.Source, now time.Time) []Event {
	if len(active) < 2 {
		return nil
	}

	count := minBatch + rng.IntN(batchSpread)
	events := make([]Event, 0, count)
	for range count {
		from := rng.IntN(len(active))
		to := rng.IntN(len(active) - 1)
		if to >= from {
			to++
		}

		kind := Gradient
		if rng.Float64() < modelShare {
			kind = Model
		}

		events = append(events, Event{
			From:      active[from],
			To:        active[to],
			Kind:      kind,
			SizeKB:    minSizeKB + rng.IntN(sizeSpreadKB),
			Timestamp: now,
		})
	}

	return events
}
