package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/absmach/mltorrent/pkg/history"
	"github.com/absmach/mltorrent/pkg/run"
)

type RunRepository interface {
	Save(ctx context.Context, r run.Run) error
	Get(ctx context.Context, id string) (run.Run, error)
	List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error)
}

type dbRun struct {
	ID         string    `db:"id"`
	Seed       string    `db:"seed"`
	State      string    `db:"state"`
	Dataset    string    `db:"dataset"`
	Peers      int       `db:"peers"`
	Epochs     int       `db:"epochs"`
	MaxEpochs  int       `db:"max_epochs"`
	StartedAt  time.Time `db:"started_at"`
	FinishedAt time.Time `db:"finished_at"`
	Records    []byte    `db:"records"`
	Stats      []byte    `db:"stats"`
}

const runColumns = `id, seed, state, dataset, peers, epochs, max_epochs, started_at, finished_at, records, stats`

type runRepo struct {
	db *Database
}

func NewRunRepository(db *Database) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Save(ctx context.Context, rn run.Run) error {
	records, err := jsonBytes(rn.Records)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}
	stats, err := jsonBytes(rn.Stats)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			epochs = EXCLUDED.epochs,
			max_epochs = EXCLUDED.max_epochs,
			finished_at = EXCLUDED.finished_at,
			records = EXCLUDED.records,
			stats = EXCLUDED.stats`,
		rn.ID,
		strconv.FormatUint(rn.Seed, 10),
		rn.State,
		rn.Dataset,
		rn.Peers,
		rn.Epochs,
		rn.MaxEpochs,
		rn.StartedAt,
		rn.FinishedAt,
		string(records),
		string(stats),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *runRepo) Get(ctx context.Context, id string) (run.Run, error) {
	var row dbRun
	if err := r.db.GetContext(ctx, &row, `SELECT `+runColumns+` FROM runs WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return run.Run{}, ErrNotFound
		}

		return run.Run{}, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	return fromDBRun(row)
}

func (r *runRepo) List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error) {
	var total uint64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM runs`); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	var rows []dbRun
	if err := r.db.SelectContext(ctx, &rows,
		`SELECT `+runColumns+` FROM runs ORDER BY id LIMIT $1 OFFSET $2`,
		limit,
		offset,
	); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrDBQuery, err)
	}

	runs := make([]run.Run, 0, len(rows))
	for _, row := range rows {
		rn, err := fromDBRun(row)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, rn)
	}

	return runs, total, nil
}

func fromDBRun(row dbRun) (run.Run, error) {
	seed, err := strconv.ParseUint(row.Seed, 10, 64)
	if err != nil {
		return run.Run{}, fmt.Errorf("%w: seed: %w", ErrDBQuery, err)
	}

	var records []history.Record
	if err := jsonUnmarshal(row.Records, &records); err != nil {
		return run.Run{}, fmt.Errorf("%w: records: %w", ErrDBQuery, err)
	}
	var stats history.Stats
	if err := jsonUnmarshal(row.Stats, &stats); err != nil {
		return run.Run{}, fmt.Errorf("%w: stats: %w", ErrDBQuery, err)
	}

	return run.Run{
		ID:         row.ID,
		Seed:       seed,
		State:      row.State,
		Dataset:    row.Dataset,
		Peers:      row.Peers,
		Epochs:     row.Epochs,
		MaxEpochs:  row.MaxEpochs,
		StartedAt:  row.StartedAt.UTC(),
		FinishedAt: row.FinishedAt.UTC(),
		Records:    records,
		Stats:      stats,
	}, nil
}
