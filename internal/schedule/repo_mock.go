package schedule

import (
	"context"
	"sort"
	"sync"
)

// repoMock keeps schedule entries in memory for handler tests,
// mirroring the replace-per-date semantics of the sqlite repo.
type repoMock struct {
	mu      sync.Mutex
	entries []Entry
	nextID  int
}

func newRepoMock() *repoMock {
	return &repoMock{nextID: 1}
}

func (m *repoMock) List(_ context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Entry, len(m.entries))
	copy(all, m.entries)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Date < all[j].Date
	})
	return all, nil
}

func (m *repoMock) Replace(_ context.Context, entries []NewEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	dates := make(map[string]struct{})
	for _, e := range entries {
		if e.Date != "" {
			dates[e.Date] = struct{}{}
		}
	}
	if len(dates) == 0 {
		return nil
	}

	kept := m.entries[:0]
	for _, e := range m.entries {
		if _, replaced := dates[e.Date]; !replaced {
			kept = append(kept, e)
		}
	}
	m.entries = kept

	for _, e := range entries {
		if e.Date == "" || e.WorkoutID == 0 {
			continue
		}
		m.entries = append(m.entries, Entry{
			ID:        m.nextID,
			Date:      e.Date,
			WorkoutID: e.WorkoutID,
		})
		m.nextID++
	}

	return nil
}

func (m *repoMock) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = nil
	return nil
}
