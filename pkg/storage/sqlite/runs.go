package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
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
	Records    string    `db:"records"`
	Stats      string    `db:"stats"`
}

const runColumns = `id, seed, state, dataset, peers, epochs, max_epochs, started_at, finished_at, records, stats`

type runRepo struct {
	db *Database
}

func NewRunRepository(db *Database) RunRepository {
	return &runRepo{db: db}
}

func (r *runRepo) Save(ctx context.Context, rn run.Run) error {
	row, err := toDBRun(rn)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	_, err = r.db.NamedExecContext(ctx,
		`INSERT INTO runs (`+runColumns+`)
		VALUES (:id, :seed, :state, :dataset, :peers, :epochs, :max_epochs, :started_at, :finished_at, :records, :stats)
		ON CONFLICT(id) DO UPDATE SET
			state = excluded.state,
			epochs = excluded.epochs,
			max_epochs = excluded.max_epochs,
			finished_at = excluded.finished_at,
			records = excluded.records,
			stats = excluded.stats`,
		row,
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCreate, err)
	}

	return nil
}

func (r *runRepo) Get(ctx context.Context, id string) (run.Run, error) {
	var row dbRun
	if err := r.db.GetContext(ctx, &row, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id); err != nil {
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
		`SELECT `+runColumns+` FROM runs ORDER BY id LIMIT ? OFFSET ?`,
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

func toDBRun(rn run.Run) (dbRun, error) {
	records, err := json.Marshal(rn.Records)
	if err != nil {
		return dbRun{}, err
	}
	stats, err := json.Marshal(rn.Stats)
	if err != nil {
		return dbRun{}, err
	}

	return dbRun{
		ID:         rn.ID,
		Seed:       strconv.FormatUint(rn.Seed, 10),
		State:      rn.State,
		Dataset:    rn.Dataset,
		Peers:      rn.Peers,
		Epochs:     rn.Epochs,
		MaxEpochs:  rn.MaxEpochs,
		StartedAt:  rn.StartedAt.UTC(),
		FinishedAt: rn.FinishedAt.UTC(),
		Records:    string(records),
		Stats:      string(stats),
	}, nil
}

func fromDBRun(row dbRun) (run.Run, error) {
	seed, err := strconv.ParseUint(row.Seed, 10, 64)
	if err != nil {
		return run.Run{}, fmt.Errorf("%w: seed: %w", ErrDBQuery, err)
	}

	var records []history.Record
	if err := json.Unmarshal([]byte(row.Records), &records); err != nil {
		return run.Run{}, fmt.Errorf("%w: records: %w", ErrDBQuery, err)
	}
	var stats history.Stats
	if err := json.Unmarshal([]byte(row.Stats), &stats); err != nil {
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
