package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/computeruse/core"
)

// Interface compliance (compile-time assertion)
var _ Store = (*InMemoryStore)(nil)

func TestInMemoryStoreSaveGet(t *testing.T) {
	store := NewInMemoryStore()

	record := Record{
		RunID:     "run-1",
		Goal:      "click the button",
		StartedAt: time.Now(),
		Result: core.RunResult{
			Status:     core.StatusDone,
			Completed:  true,
			Iterations: 2,
			State:      map[string]any{"clicks": 1},
			History:    []core.ActionResult{core.Succeeded(core.ActionClick, nil)},
		},
	}
	assert.NoError(t, store.Save(record))

	got, err := store.Get("run-1")
	assert.NoError(t, err)
	assert.Equal(t, "click the button", got.Goal)
	assert.Equal(t, core.StatusDone, got.Result.Status)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInMemoryStoreIsolation(t *testing.T) {
	store := NewInMemoryStore()
	record := Record{
		RunID: "run-1",
		Result: core.RunResult{
			State:   map[string]any{"k": "original"},
			History: []core.ActionResult{core.Succeeded(core.ActionClick, nil)},
		},
	}
	assert.NoError(t, store.Save(record))

	// Mutating the saved record must not leak into the store.
	record.Result.State["k"] = "mutated"

	got, _ := store.Get("run-1")
	assert.Equal(t, "original", got.Result.State["k"])

	// Mutating the returned record must not leak either.
	got.Result.State["k"] = "mutated-again"
	got2, _ := store.Get("run-1")
	assert.Equal(t, "original", got2.Result.State["k"])
}

func TestInMemoryStoreListOrdered(t *testing.T) {
	store := NewInMemoryStore()
	base := time.Now()

	assert.NoError(t, store.Save(Record{RunID: "b", StartedAt: base.Add(time.Minute)}))
	assert.NoError(t, store.Save(Record{RunID: "a", StartedAt: base}))
	assert.NoError(t, store.Save(Record{RunID: "c", StartedAt: base.Add(2 * time.Minute)}))

	records, err := store.List()
	assert.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, "a", records[0].RunID)
	assert.Equal(t, "b", records[1].RunID)
	assert.Equal(t, "c", records[2].RunID)
}
