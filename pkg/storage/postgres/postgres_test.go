package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/absmach/mltorrent/pkg/storage/postgres"
	"github.com/absmach/mltorrent/pkg/storage/testutil"
	"github.com/google/uuid"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDB *postgres.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	container, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16.2-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start container: %s", err)
	}

	port := container.GetPort("5432/tcp")

	pool.MaxWait = 120 * time.Second
	if err := pool.Retry(func() error {
		url := fmt.Sprintf("host=localhost port=%s user=test dbname=test password=test sslmode=disable", port)
		db, err := sql.Open("pgx", url)
		if err != nil {
			return err
		}
		defer db.Close()

		return db.Ping()
	}); err != nil {
		log.Fatalf("Could not connect to docker: %s", err)
	}

	testDB, err = postgres.NewDatabase("localhost", port, "test", "test", "test", "disable")
	if err != nil {
		log.Fatalf("Could not setup test DB connection: %s", err)
	}

	code := m.Run()

	testDB.Close()
	if err := pool.Purge(container); err != nil {
		log.Fatalf("Could not purge container: %s", err)
	}

	os.Exit(code)
}

func TestRunRepository_SaveGet(t *testing.T) {
	repo := postgres.NewRunRepository(testDB)
	ctx := context.Background()

	want := testutil.TestRun(uuid.NewString())
	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.Seed, got.Seed)
	assert.Equal(t, want.Records, got.Records)
	assert.Equal(t, want.Stats, got.Stats)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))

	want.State = "idle"
	want.Records = want.Records[:1]
	require.NoError(t, repo.Save(ctx, want))

	got, err = repo.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, "idle", got.State)
	assert.Len(t, got.Records, 1)
}

func TestRunRepository_GetNotFound(t *testing.T) {
	repo := postgres.NewRunRepository(testDB)

	_, err := repo.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, postgres.ErrNotFound)
}

func TestRunRepository_List(t *testing.T) {
	repo := postgres.NewRunRepository(testDB)
	ctx := context.Background()

	_, before, err := repo.List(ctx, 0, 1)
	require.NoError(t, err)

	for range 3 {
		require.NoError(t, repo.Save(ctx, testutil.TestRun(uuid.NewString())))
	}

	runs, total, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, before+3, total)
	assert.Len(t, runs, int(total))
	for i := 1; i < len(runs); i++ {
		assert.Less(t, runs[i-1].ID, runs[i].ID)
	}

	runs, _, err = repo.List(ctx, 0, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
