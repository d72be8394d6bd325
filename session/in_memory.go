package session

import (
	"sort"
	"sync"

	"github.com/hupe1980/computeruse/core"
)

// InMemoryStore is a volatile Store implementation keeping run records in a
// process-local map. It is safe for concurrent access and best suited for
// tests or ephemeral tooling. Each returned record is cloned to prevent
// external mutation of internal state.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryStore constructs an empty in-memory run record store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

// Save stores a clone of the record under its run id.
func (s *InMemoryStore) Save(record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.RunID] = cloneRecord(record)
	return nil
}

// Get returns a clone of the record for the run id or ErrNotFound.
func (s *InMemoryStore) Get(runID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[runID]
	if !ok {
		return Record{}, ErrNotFound
	}
	return cloneRecord(record), nil
}

// List returns clones of all stored records ordered by start time.
func (s *InMemoryStore) List() ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]Record, 0, len(s.records))
	for _, record := range s.records {
		records = append(records, cloneRecord(record))
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].StartedAt.Before(records[j].StartedAt)
	})
	return records, nil
}

// cloneRecord deep-copies the mutable parts of a record (state map, history
// slice) so callers cannot reach into the store's internals.
func cloneRecord(record Record) Record {
	cp := record
	if record.Result.State != nil {
		cp.Result.State = make(map[string]any, len(record.Result.State))
		for k, v := range record.Result.State {
			cp.Result.State[k] = v
		}
	}
	if record.Result.History != nil {
		cp.Result.History = append([]core.ActionResult(nil), record.Result.History...)
	}
	return cp
}
