// internal/adapters/output/sqlite_test.go
package output

import (
	"database/sql"
	"path/filepath"
	"testing"

	"subsift/internal/platform/logx"
	"subsift/internal/testutil"
)

func openHistory(t *testing.T, path string) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func countRows(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query).Scan(&n); err != nil {
		t.Fatalf("count query: %v", err)
	}
	return n
}

func TestSQLiteSink_StoresNamesAndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	sink, err := NewSQLiteSink(path, logx.NewSilent())
	testutil.AssertNoError(t, err, "sink opens")

	testutil.AssertNoError(t, sink.Emit(resolved("api.example.com", "thc", "9.9.9.9")), "first emit")
	testutil.AssertNoError(t, sink.Emit(resolved("mail.example.com", "crtsh", "9.9.9.10")), "second emit")
	testutil.AssertNoError(t, sink.Flush(sampleReport(t)), "flush")
	testutil.AssertNoError(t, sink.Close(), "close")

	db := openHistory(t, path)
	testutil.AssertEqual(t, countRows(t, db, "SELECT COUNT(*) FROM names"), 2, "names stored")
	testutil.AssertEqual(t, countRows(t, db, "SELECT COUNT(*) FROM runs"), 1, "run summary stored")

	var source string
	err = db.QueryRow("SELECT source FROM names WHERE name = ?", "api.example.com").Scan(&source)
	testutil.AssertNoError(t, err, "name queryable")
	testutil.AssertEqual(t, source, "thc", "source attribution kept")
}

func TestSQLiteSink_DedupsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	// Dos ejecuciones sobre la misma base
	for i := 0; i < 2; i++ {
		sink, err := NewSQLiteSink(path, logx.NewSilent())
		testutil.AssertNoError(t, err, "sink opens")
		testutil.AssertNoError(t, sink.Emit(resolved("api.example.com", "thc", "9.9.9.9")), "emit")
		testutil.AssertNoError(t, sink.Flush(sampleReport(t)), "flush")
		testutil.AssertNoError(t, sink.Close(), "close")
	}

	db := openHistory(t, path)
	testutil.AssertEqual(t, countRows(t, db, "SELECT COUNT(*) FROM names"), 1, "name stored once")
	testutil.AssertEqual(t, countRows(t, db, "SELECT COUNT(*) FROM runs"), 2, "one run row each")
}

func TestSQLiteSink_RunRowCounters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	sink, err := NewSQLiteSink(path, logx.NewSilent())
	testutil.AssertNoError(t, err, "sink opens")

	report := sampleReport(t)
	testutil.AssertNoError(t, sink.Flush(report), "flush")
	testutil.AssertNoError(t, sink.Close(), "close")

	db := openHistory(t, path)
	var target string
	var candidates, resolvedCount int
	err = db.QueryRow("SELECT target, candidates, resolved FROM runs WHERE id = ?", report.ID).
		Scan(&target, &candidates, &resolvedCount)
	testutil.AssertNoError(t, err, "run row queryable")
	testutil.AssertEqual(t, target, "example.com", "target stored")
	testutil.AssertEqual(t, candidates, 3, "candidate counter stored")
	testutil.AssertEqual(t, resolvedCount, 2, "resolved counter stored")
}
