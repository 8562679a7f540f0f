package quiz_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/placequest/placequest/internal/db"
	"github.com/placequest/placequest/internal/quiz"
)

var memDBSeq int

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	memDBSeq++
	dsn := fmt.Sprintf("file:progress_test_%d?mode=memory&cache=shared", memDBSeq)
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return dbh
}

func TestSQLStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := quiz.NewSQLStore(openTestDB(t))

	if got := s.CurrentIndex(ctx, "p1", "n1"); got != 0 {
		t.Fatalf("CurrentIndex on empty table = %d, want 0", got)
	}

	if err := s.SetCurrentIndex(ctx, "p1", "n1", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentIndex(ctx, "p1", "n1", 5); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentIndex(ctx, "p1", "n1"); got != 5 {
		t.Fatalf("CurrentIndex after upsert = %d, want 5", got)
	}

	if err := s.SetAnswered(ctx, "p1", "n1", 5); err != nil {
		t.Fatal(err)
	}
	if !s.IsAnswered(ctx, "p1", "n1", 5) {
		t.Fatal("IsAnswered = false after SetAnswered")
	}
	if s.IsAnswered(ctx, "p2", "n1", 5) {
		t.Fatal("answered flag leaked across profiles")
	}
}

func TestSQLStoreMalformedValue(t *testing.T) {
	ctx := context.Background()
	dbh := openTestDB(t)
	s := quiz.NewSQLStore(dbh)

	// Stored garbage must read back as the default, never as an error.
	_, err := dbh.ExecContext(ctx,
		`INSERT INTO progress_kv (profile_id,k,v,updated_at) VALUES ($1,$2,$3,0)`,
		"p1", "pc_progress_n1", "not-a-number")
	if err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentIndex(ctx, "p1", "n1"); got != 0 {
		t.Fatalf("CurrentIndex with malformed value = %d, want 0", got)
	}
}

func TestSQLStoreReset(t *testing.T) {
	ctx := context.Background()
	s := quiz.NewSQLStore(openTestDB(t))

	const count = 3
	if err := s.SetCurrentIndex(ctx, "p1", "n1", 2); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < count; i++ {
		if err := s.SetAnswered(ctx, "p1", "n1", i); err != nil {
			t.Fatal(err)
		}
	}
	// Progress on another node survives the reset.
	if err := s.SetAnswered(ctx, "p1", "n2", 0); err != nil {
		t.Fatal(err)
	}

	if err := s.Reset(ctx, "p1", "n1", count); err != nil {
		t.Fatal(err)
	}
	if got := s.CurrentIndex(ctx, "p1", "n1"); got != 0 {
		t.Fatalf("CurrentIndex after reset = %d, want 0", got)
	}
	for i := 0; i < count; i++ {
		if s.IsAnswered(ctx, "p1", "n1", i) {
			t.Fatalf("IsAnswered(%d) = true after reset", i)
		}
	}
	if !s.IsAnswered(ctx, "p1", "n2", 0) {
		t.Fatal("reset cleared a different node's flag")
	}
}
