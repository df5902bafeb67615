package storage

import (
	"context"
	"slices"
	"strings"
	"sync"

	pkgerrors "github.com/absmach/mltorrent/pkg/errors"
	"github.com/absmach/mltorrent/pkg/run"
)

type memoryRunRepository struct {
	sync.RWMutex

	runs map[string]run.Run
}

func NewMemoryRunRepository() RunRepository {
	return &memoryRunRepository{runs: make(map[string]run.Run)}
}

func (m *memoryRunRepository) Save(_ context.Context, r run.Run) error {
	if r.ID == "" {
		return pkgerrors.ErrEmptyKey
	}

	m.Lock()
	defer m.Unlock()

	r.Records = slices.Clone(r.Records)
	m.runs[r.ID] = r

	return nil
}

func (m *memoryRunRepository) Get(_ context.Context, id string) (run.Run, error) {
	if id == "" {
		return run.Run{}, pkgerrors.ErrEmptyKey
	}

	m.RLock()
	defer m.RUnlock()

	r, ok := m.runs[id]
	if !ok {
		return run.Run{}, pkgerrors.ErrNotFound
	}
	r.Records = slices.Clone(r.Records)

	return r, nil
}

func (m *memoryRunRepository) List(_ context.Context, offset, limit uint64) ([]run.Run, uint64, error) {
	m.RLock()
	defer m.RUnlock()

	ids := make([]string, 0, len(m.runs))
	for id := range m.runs {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)

	total := uint64(len(ids))
	if offset >= total {
		return []run.Run{}, total, nil
	}
	end := min(offset+limit, total)

	runs := make([]run.Run, 0, end-offset)
	for _, id := range ids[offset:end] {
		r := m.runs[id]
		r.Records = slices.Clone(r.Records)
		runs = append(runs, r)
	}

	return runs, total, nil
}
