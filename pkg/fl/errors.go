package fl

import "errors"

var (
	ErrNoUpdates     = errors.New("no updates provided for aggregation")
	ErrInvalidWeight = errors.New("contribution weights must be positive")
)
