package testhelpers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"

	"cellar-sync/internal/cellar_sync/model"
)

// ErrUpsertFailed is returned by the fake when a failure is scheduled.
var ErrUpsertFailed = errors.New("upsert failed")

// FakeStore is an in-memory keyed-upsert store used in place of Mongo. It
// mirrors the real contract: upsert by natural key, offset/limit pages in
// insertion order, counts with equality filters.
type FakeStore struct {
	mu     sync.Mutex
	tables map[string]*fakeTable

	SyncRuns []model.SyncRun

	// UpsertBatches records the chunk size of every Upsert call.
	UpsertBatches []int
	// FailUpsertOn makes the n-th Upsert call (1-based) fail; 0 disables.
	FailUpsertOn int
	upsertCalls  int
}

type fakeTable struct {
	order []string
	rows  map[string]bson.M
}

func NewFakeStore() *FakeStore {
	return &FakeStore{tables: make(map[string]*fakeTable)}
}

func (f *FakeStore) table(coll string) *fakeTable {
	t, ok := f.tables[coll]
	if !ok {
		t = &fakeTable{rows: make(map[string]bson.M)}
		f.tables[coll] = t
	}
	return t
}

func (f *FakeStore) Upsert(_ context.Context, coll string, rows []bson.M, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.upsertCalls++
	f.UpsertBatches = append(f.UpsertBatches, len(rows))
	if f.FailUpsertOn > 0 && f.upsertCalls >= f.FailUpsertOn {
		return ErrUpsertFailed
	}

	t := f.table(coll)
	for _, row := range rows {
		id, _ := row[key].(string)
		if _, exists := t.rows[id]; !exists {
			t.order = append(t.order, id)
		}
		t.rows[id] = copyRow(row)
	}
	return nil
}

func (f *FakeStore) Page(_ context.Context, coll string, filter bson.M, skip, limit int64) ([]bson.M, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := f.match(coll, filter)
	if skip >= int64(len(matched)) {
		return nil, nil
	}
	matched = matched[skip:]
	if limit > 0 && int64(len(matched)) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *FakeStore) Count(_ context.Context, coll string, filter bson.M) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.match(coll, filter))), nil
}

func (f *FakeStore) InsertSyncRun(_ context.Context, run *model.SyncRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.SyncRuns = append(f.SyncRuns, *run)
	return nil
}

func (f *FakeStore) RecentSyncRuns(_ context.Context, limit int64) ([]model.SyncRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.SyncRun, len(f.SyncRuns))
	copy(out, f.SyncRuns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SyncedAt.After(out[j].SyncedAt)
	})
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Rows returns the persisted rows of a collection in insertion order.
func (f *FakeStore) Rows(coll string) []bson.M {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.match(coll, nil)
}

// Row returns one persisted row by natural key.
func (f *FakeStore) Row(coll, id string) bson.M {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.table(coll).rows[id]; ok {
		return copyRow(row)
	}
	return nil
}

// Seed inserts rows directly, bypassing the upsert bookkeeping.
func (f *FakeStore) Seed(coll, key string, rows ...bson.M) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.table(coll)
	for _, row := range rows {
		id, _ := row[key].(string)
		if _, exists := t.rows[id]; !exists {
			t.order = append(t.order, id)
		}
		t.rows[id] = copyRow(row)
	}
}

func (f *FakeStore) match(coll string, filter bson.M) []bson.M {
	t := f.table(coll)
	var out []bson.M
	for _, id := range t.order {
		row := t.rows[id]
		if rowMatches(row, filter) {
			out = append(out, copyRow(row))
		}
	}
	return out
}

func rowMatches(row, filter bson.M) bool {
	for k, want := range filter {
		if !valuesEqual(row[k], want) {
			return false
		}
	}
	return true
}

// valuesEqual compares with numeric tolerance so an int filter matches a
// float value the way the real store's equality predicate does.
func valuesEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			return af == bf
		}
		return false
	}
	return a == b
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func copyRow(row bson.M) bson.M {
	out := make(bson.M, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}
