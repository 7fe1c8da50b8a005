package sow

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "sows"))
}

// --- Create ---

func TestFileStore_CreateWritesJSON(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)

	require.NoError(t, store.Create(r))

	data, err := os.ReadFile(store.RecordPath(r.ID))
	require.NoError(t, err)

	var parsed Record
	require.NoError(t, json.Unmarshal(data, &parsed))
	require.Equal(t, *r, parsed)
}

func TestFileStore_CreateSuffixesCollisions(t *testing.T) {
	store := newTestStore(t)

	first, second, third := testRecord(t), testRecord(t), testRecord(t)
	require.NoError(t, store.Create(first))
	require.NoError(t, store.Create(second))
	require.NoError(t, store.Create(third))

	require.Equal(t, "acme-corp-q3-revops-cleanup", first.ID)
	require.Equal(t, "acme-corp-q3-revops-cleanup-2", second.ID)
	require.Equal(t, "acme-corp-q3-revops-cleanup-3", third.ID)
}

func TestFileStore_CreateRejectsBadID(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)
	r.ID = "../escape"
	require.Error(t, store.Create(r))
}

// --- Load ---

func TestFileStore_Load(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)
	require.NoError(t, store.Create(r))

	got, err := store.Load(r.ID)
	require.NoError(t, err)
	require.Equal(t, r, got)
}

func TestFileStore_LoadNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("missing")
	require.True(t, errors.Is(err, ErrNotFound), "err = %v", err)

	_, err = store.Load("../../etc/passwd")
	require.True(t, errors.Is(err, ErrNotFound), "err = %v", err)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, os.MkdirAll(store.Dir(), 0o755))
	require.NoError(t, os.WriteFile(store.RecordPath("broken"), []byte("{"), 0o644))

	_, err := store.Load("broken")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
}

// --- Save ---

func TestFileStore_SaveStampsUpdatedAt(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)
	require.NoError(t, store.Create(r))

	orig := timeNow
	timeNow = func() time.Time { return time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { timeNow = orig })

	require.NoError(t, Apply(r, ActionSubmit))
	require.NoError(t, store.Save(r))

	got, err := store.Load(r.ID)
	require.NoError(t, err)
	require.Equal(t, StatusReview, got.Status)
	require.Equal(t, "2026-04-01T00:00:00Z", got.UpdatedAt)
	require.Equal(t, "2026-03-02T09:30:00Z", got.CreatedAt)
}

func TestFileStore_SaveUnknown(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)
	require.True(t, errors.Is(store.Save(r), ErrNotFound))
}

// --- List ---

func TestFileStore_ListEmptyDir(t *testing.T) {
	store := newTestStore(t)
	got, err := store.List(ListFilter{})
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Empty(t, got)
}

func TestFileStore_ListFiltersAndOrders(t *testing.T) {
	store := newTestStore(t)

	orig := timeNow
	t.Cleanup(func() { timeNow = orig })

	day := 1
	create := func(customer string) *Record {
		created := time.Date(2026, 5, day, 0, 0, 0, 0, time.UTC)
		timeNow = func() time.Time { return created }
		day++
		r := testRecord(t)
		r.Customer = customer
		r.ID = Slugify(customer)
		require.NoError(t, store.Create(r))
		return r
	}
	acme := create("Acme")
	globex := create("Globex")
	initech := create("Initech")

	require.NoError(t, Apply(globex, ActionArchive))
	require.NoError(t, store.Save(globex))

	// Stray files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir(), "bad.json"), []byte("nope"), 0o644))

	all, err := store.List(ListFilter{})
	require.NoError(t, err)
	require.Equal(t, []string{initech.ID, globex.ID, acme.ID}, ids(all))

	drafts, err := store.List(ListFilter{Status: StatusDraft})
	require.NoError(t, err)
	require.Equal(t, []string{initech.ID, acme.ID}, ids(drafts))

	byCustomer, err := store.List(ListFilter{Customer: "acme"})
	require.NoError(t, err)
	require.Equal(t, []string{acme.ID}, ids(byCustomer))
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

// --- Delete ---

func TestFileStore_Delete(t *testing.T) {
	store := newTestStore(t)
	r := testRecord(t)
	require.NoError(t, store.Create(r))

	require.NoError(t, store.Delete(r.ID))
	_, err := store.Load(r.ID)
	require.True(t, errors.Is(err, ErrNotFound))

	require.True(t, errors.Is(store.Delete(r.ID), ErrNotFound))
}
