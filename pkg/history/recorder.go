package history

import (
	"errors"
	"fmt"
)

var ErrEpochGap = errors.New("round epochs must be gapless and start at 0")

// Record summarises one round. Epoch 0 is the pre-training snapshot.
type Record struct {
	Epoch           int     `json:"epoch"`
	GlobalAccuracy  float64 `json:"global_accuracy"`
	GlobalLoss      float64 `json:"global_loss"`
	AvgPeerAccuracy float64 `json:"avg_peer_accuracy"`
}

// Recorder is an append-only round ledger.
type Recorder struct {
	records []Record
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Append adds r when its epoch is exactly the next one.
func (h *Recorder) Append(r Record) error {
	if r.Epoch != len(h.records) {
		return fmt.Errorf("%w: got epoch %d, want %d", ErrEpochGap, r.Epoch, len(h.records))
	}
	h.records = append(h.records, r)

	return nil
}

// Records returns a copy of the ledger.
func (h *Recorder) Records() []Record {
	out := make([]Record, len(h.records))
	copy(out, h.records)

	return out
}

func (h *Recorder) Len() int {
	return len(h.records)
}

// Last returns the newest record, if any.
func (h *Recorder) Last() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}

	return h.records[len(h.records)-1], true
}
