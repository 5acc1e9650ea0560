package store

import (
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen(t *testing.T) {
	st := openTestStore(t)

	var name string
	err := st.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='query_cache'").Scan(&name)
	if err != nil {
		t.Fatalf("query_cache table not created: %v", err)
	}
	if name != "query_cache" {
		t.Errorf("expected table name 'query_cache', got %q", name)
	}
}

func TestOpenFile(t *testing.T) {
	path := t.TempDir() + "/cache.db"

	st, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	at := time.UnixMilli(1700000000000)
	if err := st.Put("products", []byte(`[]`), at); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	st.Close()

	// Entries survive a reopen.
	st, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer st.Close()

	e, ok, err := st.Get("products")
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if !e.FetchedAt.Equal(at) {
		t.Errorf("FetchedAt = %v, want %v", e.FetchedAt, at)
	}
}

func TestMemoryStoresAreIsolated(t *testing.T) {
	a := openTestStore(t)
	b := openTestStore(t)

	if err := a.Put("products", []byte(`[1]`), time.Now()); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if _, ok, err := b.Get("products"); err != nil || ok {
		t.Errorf("second :memory: store sees the first one's entry: ok=%v err=%v", ok, err)
	}
}

func TestPutGet(t *testing.T) {
	st := openTestStore(t)

	at := time.Now().Truncate(time.Millisecond)
	if err := st.Put("products", []byte(`[{"id":1}]`), at); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	e, ok, err := st.Get("products")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !ok {
		t.Fatal("expected entry to exist")
	}
	if string(e.Payload) != `[{"id":1}]` {
		t.Errorf("unexpected payload %q", e.Payload)
	}
	if e.Size != len(e.Payload) {
		t.Errorf("Size = %d, want %d", e.Size, len(e.Payload))
	}
	if !e.FetchedAt.Equal(at) {
		t.Errorf("FetchedAt = %v, want %v", e.FetchedAt, at)
	}
}

func TestPutReplaces(t *testing.T) {
	st := openTestStore(t)

	first := time.UnixMilli(1000)
	second := time.UnixMilli(2000)
	st.Put("categories", []byte(`["a"]`), first)
	st.Put("categories", []byte(`["a","b"]`), second)

	e, _, _ := st.Get("categories")
	if string(e.Payload) != `["a","b"]` {
		t.Errorf("expected replaced payload, got %q", e.Payload)
	}
	if !e.FetchedAt.Equal(second) {
		t.Errorf("expected second timestamp, got %v", e.FetchedAt)
	}
}

func TestGetMissing(t *testing.T) {
	st := openTestStore(t)

	_, ok, err := st.Get("nope")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("expected missing entry")
	}
}

func TestDeleteAndPurge(t *testing.T) {
	st := openTestStore(t)

	now := time.Now()
	st.Put("a", []byte("1"), now)
	st.Put("b", []byte("22"), now)
	st.Put("c", []byte("333"), now)

	if err := st.Delete("a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := st.Delete("missing"); err != nil {
		t.Errorf("Delete of missing key should not fail: %v", err)
	}

	entries, err := st.Entries()
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 2 || entries[0].Key != "b" || entries[1].Size != 3 {
		t.Errorf("unexpected entries %+v", entries)
	}

	n, err := st.Purge()
	if err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 purged, got %d", n)
	}
	entries, _ = st.Entries()
	if len(entries) != 0 {
		t.Errorf("expected empty cache after purge, got %d entries", len(entries))
	}
}
