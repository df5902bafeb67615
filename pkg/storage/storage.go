// Package storage archives finished training runs.
package storage

import (
	"context"
	"fmt"
	"io"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/run"
	"github.com/absmach/mltorrent/pkg/storage/badger"
	"github.com/absmach/mltorrent/pkg/storage/postgres"
	"github.com/absmach/mltorrent/pkg/storage/sqlite"
)

// RunRepository stores runs keyed by id. Save overwrites an existing run
// with the same id, and List orders runs by id.
type RunRepository interface {
	Save(ctx context.Context, r run.Run) error
	Get(ctx context.Context, id string) (run.Run, error)
	List(ctx context.Context, offset, limit uint64) ([]run.Run, uint64, error)
}

type Config struct {
	Type string `env:"STORAGE_TYPE" envDefault:"memory"`

	PostgresHost    string `env:"POSTGRES_HOST"    envDefault:"localhost"`
	PostgresPort    string `env:"POSTGRES_PORT"    envDefault:"5432"`
	PostgresUser    string `env:"POSTGRES_USER"    envDefault:"mltorrent"`
	PostgresPass    string `env:"POSTGRES_PASS"    envDefault:"mltorrent"`
	PostgresDB      string `env:"POSTGRES_DB"      envDefault:"mltorrent"`
	PostgresSSLMode string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"./mltorrent.db"`

	BadgerPath string `env:"BADGER_PATH" envDefault:"./data/badger"`
}

type Repositories struct {
	Runs RunRepository
	// Closer closes the underlying persistent storage connection.
	// It is nil for the in-memory backend.
	Closer io.Closer
}

func NewRepositories(cfg Config) (*Repositories, error) {
	switch cfg.Type {
	case "postgres":
		db, err := postgres.NewDatabase(
			cfg.PostgresHost,
			cfg.PostgresPort,
			cfg.PostgresUser,
			cfg.PostgresPass,
			cfg.PostgresDB,
			cfg.PostgresSSLMode,
		)
		if err != nil {
			return nil, err
		}

		return &Repositories{Runs: postgres.NewRunRepository(db), Closer: db}, nil
	case "sqlite":
		db, err := sqlite.NewDatabase(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}

		return &Repositories{Runs: sqlite.NewRunRepository(db), Closer: db}, nil
	case "badger":
		db, err := badger.NewDatabase(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}

		return &Repositories{Runs: badger.NewRunRepository(db), Closer: db}, nil
	case "memory", "":
		return &Repositories{Runs: NewMemoryRunRepository()}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported storage type %q", pkgerrors.ErrInvalidConfiguration, cfg.Type)
	}
}
