// Package run describes archived training runs.
package run

import (
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/google/uuid"
)

// Run is the archived outcome of one simulation, from its pre-training
// snapshot to the last committed round.
type Run struct {
	ID         string           `json:"id"`
	Seed       uint64           `json:"seed"`
	State      string           `json:"state"`
	Dataset    string           `json:"dataset"`
	Peers      int              `json:"peers"`
	Epochs     int              `json:"epochs"`
	MaxEpochs  int              `json:"max_epochs"`
	StartedAt  time.Time        `json:"started_at"`
	FinishedAt time.Time        `json:"finished_at"`
	Records    []history.Record `json:"records"`
	Stats      history.Stats    `json:"stats"`
}

type RunPage struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
	Total  uint64 `json:"total"`
	Runs   []Run  `json:"runs"`
}

// NewID returns a time ordered identifier, so sorting runs by id sorts them
// by creation.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
