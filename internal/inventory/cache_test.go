package inventory

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/propdesk/propdesk/internal/db"
	"github.com/propdesk/propdesk/internal/property"
)

func testCache(t *testing.T) (*Cache, *property.Repository) {
	t.Helper()

	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	repo := property.NewRepository(conn)
	return New(repo, time.Minute), repo
}

func price(v int64) *int64 { return &v }

func TestSnapshotServesFromCache(t *testing.T) {
	cache, repo := testCache(t)

	if _, err := repo.Insert(&property.Record{
		ProjectName: "Sunrise Towers", Area: "Uppal", Price: price(9500000), BHK: "2",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	first, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("got %d records, want 1", len(first))
	}

	// A write behind the cache's back is invisible until refresh.
	if _, err := repo.Insert(&property.Record{
		ProjectName: "Lake View", Area: "Nagole", Price: price(13000000), BHK: "3",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	stale, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(stale) != 1 {
		t.Errorf("got %d records from cache, want stale 1", len(stale))
	}

	fresh, err := cache.Refresh()
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if len(fresh) != 2 {
		t.Errorf("got %d records after refresh, want 2", len(fresh))
	}
}

func TestSnapshotExpiresByTTL(t *testing.T) {
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	repo := property.NewRepository(conn)
	cache := New(repo, 10*time.Millisecond)

	if _, err := cache.Snapshot(); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if _, err := repo.Insert(&property.Record{
		ProjectName: "Sunrise Towers", Area: "Uppal", Price: price(9500000),
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	time.Sleep(20 * time.Millisecond)

	records, err := cache.Snapshot()
	if err != nil {
		t.Fatalf("Snapshot after expiry: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records after TTL expiry, want 1", len(records))
	}
}
