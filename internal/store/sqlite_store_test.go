package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/raysh454/respdiff/internal/store"
	"github.com/raysh454/respdiff/internal/testutil"
)

func openTestStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "comparisons.db")
	s, err := store.Open(context.Background(), store.Config{Path: path}, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func strPtr(s string) *string { return &s }

func sampleRecord(n string) store.NewRecord {
	return store.NewRecord{
		SourceResponse: "source " + n,
		TargetResponse: "target " + n,
		Differences:    "--- source\n+++ target",
		Metrics:        `{"difference_count":2}`,
		ContentType1:   strPtr("application/json"),
		ContentType2:   nil,
	}
}

// ─── Empty store ───

func TestSQLiteStore_EmptyReads(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx := context.Background()

	if rec, ok := s.FetchLatest(ctx); ok || rec != nil {
		t.Errorf("expected absent latest, got %+v", rec)
	}
	recent := s.FetchRecent(ctx, 10)
	if recent == nil || len(recent) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", recent)
	}
}

// ─── Insert / read ───

func TestSQLiteStore_InsertThenLatest(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx := context.Background()

	inserted, err := s.Insert(ctx, sampleRecord("1"))
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if inserted.ID <= 0 {
		t.Errorf("expected assigned id, got %d", inserted.ID)
	}
	if inserted.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if time.Since(inserted.CreatedAt) > time.Hour || time.Until(inserted.CreatedAt) > time.Hour {
		t.Errorf("created_at looks wrong: %v", inserted.CreatedAt)
	}

	latest, ok := s.FetchLatest(ctx)
	if !ok {
		t.Fatal("expected a latest record")
	}
	if latest.ID != inserted.ID || latest.SourceResponse != "source 1" || latest.TargetResponse != "target 1" {
		t.Errorf("latest does not match inserted: %+v vs %+v", latest, inserted)
	}
	if latest.Metrics != `{"difference_count":2}` || latest.Differences != "--- source\n+++ target" {
		t.Errorf("payload mismatch: %+v", latest)
	}
	if latest.ContentType1 == nil || *latest.ContentType1 != "application/json" {
		t.Errorf("content_type1 = %v", latest.ContentType1)
	}
	if latest.ContentType2 != nil {
		t.Errorf("content_type2 should be NULL, got %q", *latest.ContentType2)
	}
	if !latest.CreatedAt.Equal(inserted.CreatedAt) {
		t.Errorf("created_at differs: %v vs %v", latest.CreatedAt, inserted.CreatedAt)
	}
}

func TestSQLiteStore_FetchRecentOrderAndLimit(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, n := range []string{"a", "b", "c"} {
		rec, err := s.Insert(ctx, sampleRecord(n))
		if err != nil {
			t.Fatalf("Insert %s: %v", n, err)
		}
		ids = append(ids, rec.ID)
	}

	recent := s.FetchRecent(ctx, 2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].ID != ids[2] || recent[1].ID != ids[1] {
		t.Errorf("expected newest first, got ids %d, %d", recent[0].ID, recent[1].ID)
	}

	all := s.FetchRecent(ctx, 0)
	if len(all) != 3 {
		t.Errorf("default limit should include all 3 records, got %d", len(all))
	}
}

func TestSQLiteStore_DefaultLimitIsTen(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		if _, err := s.Insert(ctx, sampleRecord("x")); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if got := len(s.FetchRecent(ctx, -1)); got != store.DefaultRecentLimit {
		t.Errorf("expected %d records, got %d", store.DefaultRecentLimit, got)
	}
}

func TestSQLiteStore_ConcurrentInserts(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Insert(ctx, sampleRecord("c")); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent insert failed: %v", err)
	}
	if got := len(s.FetchRecent(ctx, 100)); got != 8 {
		t.Errorf("expected 8 records, got %d", got)
	}
}

func TestSQLiteStore_InsertCanceledContext(t *testing.T) {
	t.Parallel()
	s, _ := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Insert(ctx, sampleRecord("x")); err == nil {
		t.Fatal("expected error for canceled context")
	}
	if _, ok := s.FetchLatest(context.Background()); ok {
		t.Error("nothing should have been stored")
	}
}

func TestSQLiteStore_ReadsAfterCloseDegrade(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "closed.db")
	logger := &testutil.DummyLogger{}
	s, err := store.Open(context.Background(), store.Config{Path: path}, logger)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Close()

	if recent := s.FetchRecent(context.Background(), 5); recent == nil || len(recent) != 0 {
		t.Errorf("expected empty slice, got %#v", recent)
	}
	if _, ok := s.FetchLatest(context.Background()); ok {
		t.Error("expected absent latest")
	}
	if len(logger.Errors) == 0 {
		t.Error("expected read failures to be logged")
	}
}

func TestSQLiteStore_InMemory(t *testing.T) {
	t.Parallel()
	s, err := store.Open(context.Background(), store.Config{Path: ":memory:"}, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := s.Insert(context.Background(), sampleRecord("m")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, ok := s.FetchLatest(context.Background()); !ok {
		t.Error("expected record in memory database")
	}
}

// ─── Migration ───

func TestSQLiteStore_MigrateLegacyTableTwice(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "legacy.db")

	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	_, err = raw.Exec(`
		CREATE TABLE comparisons (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			source_response TEXT NOT NULL,
			target_response TEXT NOT NULL,
			differences TEXT NOT NULL,
			metrics TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO comparisons (source_response, target_response, differences, metrics)
		VALUES ('old source', 'old target', '', '{"difference_count":0}');
	`)
	if err != nil {
		t.Fatalf("seed legacy table: %v", err)
	}
	_ = raw.Close()

	ctx := context.Background()
	s, err := store.Open(ctx, store.Config{Path: path}, &testutil.DummyLogger{})
	if err != nil {
		t.Fatalf("Open legacy: %v", err)
	}
	defer s.Close()

	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	if err := s.Migrate(ctx); err != nil {
		t.Fatalf("third Migrate: %v", err)
	}

	recent := s.FetchRecent(ctx, 10)
	if len(recent) != 1 || recent[0].SourceResponse != "old source" {
		t.Fatalf("legacy row lost: %+v", recent)
	}
	if recent[0].ContentType1 != nil || recent[0].ContentType2 != nil {
		t.Error("legacy row should have NULL content types")
	}

	rec, err := s.Insert(ctx, sampleRecord("new"))
	if err != nil {
		t.Fatalf("Insert after migration: %v", err)
	}
	if rec.ContentType1 == nil {
		t.Error("expected content_type1 to round-trip after migration")
	}
}
