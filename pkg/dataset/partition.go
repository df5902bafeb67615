package dataset

import (
	"fmt"

	"github.com/absmach/mltorrent/pkg/errors"
)

// Partition splits data into count contiguous shards of len(data)/count
// samples; the last shard absorbs the remainder. Shards are copies, so
// callers never alias the source slice.
func Partition(data []Sample, count int) ([][]Sample, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: peer count %d must be positive", errors.ErrInvalidConfiguration, count)
	}
	if count > len(data) {
		return nil, fmt.Errorf("%w: peer count %d exceeds dataset size %d", errors.ErrInvalidConfiguration, count, len(data))
	}

	size := len(data) / count
	shards := make([][]Sample, count)
	for i := range shards {
		start := i * size
		end := start + size
		if i == count-1 {
			end = len(data)
		}
		shard := make([]Sample, end-start)
		copy(shard, data[start:end])
		shards[i] = shard
	}

	return shards, nil
}
