package postgres

import (
	"errors"
	"fmt"
	"time"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	migrate "github.com/rubenv/sql-migrate"
)

var (
	ErrDBConnection = errors.New("database connection error")
	ErrDBQuery      = errors.New("database query error")
	ErrMigration    = errors.New("database migration error")
	ErrCreate       = errors.New("create error")
	ErrNotFound     = pkgerrors.ErrNotFound
)

type Database struct {
	*sqlx.DB
}

func NewDatabase(host, port, user, pass, name, sslMode string) (*Database, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s", host, port, user, pass, name, sslMode)
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDBConnection, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	database := &Database{DB: db}

	if err := database.Migrate(); err != nil {
		db.Close()

		return nil, err
	}

	return database, nil
}

func (db *Database) Migrate() error {
	migrations := &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "1_create_runs",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS runs (
						id VARCHAR(36) PRIMARY KEY,
						seed VARCHAR(20) NOT NULL,
						state VARCHAR(16) NOT NULL,
						dataset VARCHAR(16) NOT NULL,
						peers INTEGER NOT NULL,
						epochs INTEGER NOT NULL,
						max_epochs INTEGER NOT NULL,
						started_at TIMESTAMPTZ NOT NULL,
						finished_at TIMESTAMPTZ NOT NULL,
						records JSONB NOT NULL,
						stats JSONB NOT NULL
					)`,
				},
				Down: []string{
					`DROP TABLE IF EXISTS runs`,
				},
			},
		},
	}

	if _, err := migrate.Exec(db.DB.DB, "postgres", migrations, migrate.Up); err != nil {
		return fmt.Errorf("%w: %w", ErrMigration, err)
	}

	return nil
}
