package badger

import (
	"context"
	"fmt"

	"github.com/absmach/mltorrent/pkg/run"
	"github.com/fxamacker/cbor/v2"
)

const runPrefix = "run:"

var encMode, _ = cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()

type RunRepository interface {
	Save(ctx context.Context, r run.Run) error
	Get(ctx context.Context, id string) (run.Run, error)
	List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error)
}

type runRepo struct {
	db *Database
}

func NewRunRepository(db *Database) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Save(_ context.Context, rn run.Run) error {
	val, err := encMode.Marshal(rn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return r.db.set([]byte(runPrefix+rn.ID), val)
}

func (r *runRepo) Get(_ context.Context, id string) (run.Run, error) {
	val, err := r.db.get([]byte(runPrefix + id))
	if err != nil {
		return run.Run{}, err
	}

	return decodeRun(val)
}

func (r *runRepo) List(_ context.Context, offset, limit uint64) ([]run.Run, uint64, error) {
	values, total, err := r.db.listWithPrefix([]byte(runPrefix), offset, limit)
	if err != nil {
		return nil, 0, err
	}

	runs := make([]run.Run, 0, len(values))
	for _, val := range values {
		rn, err := decodeRun(val)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, rn)
	}

	return runs, total, nil
}

func decodeRun(val []byte) (run.Run, error) {
	var rn run.Run
	if err := cbor.Unmarshal(val, &rn); err != nil {
		return run.Run{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return rn, nil
}
