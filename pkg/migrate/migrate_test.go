package migrate

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func testSource() fstest.MapFS {
	return fstest.MapFS{
		"m/001_create_a.up.sql":   {Data: []byte(`CREATE TABLE a (id INTEGER);`)},
		"m/001_create_a.down.sql": {Data: []byte(`DROP TABLE a;`)},
		"m/002_create_b.up.sql":   {Data: []byte(`CREATE TABLE b (id INTEGER);`)},
		"m/002_create_b.down.sql": {Data: []byte(`DROP TABLE b;`)},
		"m/README":                {Data: []byte(`ignored`)},
	}
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "m.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name).Scan(&n); err != nil {
		t.Fatal(err)
	}
	return n == 1
}

func TestFSSourceMigrations(t *testing.T) {
	migrations, err := NewFSSource(testSource(), "m").Migrations()
	if err != nil {
		t.Fatal(err)
	}
	if len(migrations) != 2 {
		t.Fatalf("got %d migrations, want 2", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "create a" || migrations[0].Down == "" {
		t.Errorf("first migration = %+v", migrations[0])
	}
	if migrations[1].Version != 2 {
		t.Errorf("second migration = %+v", migrations[1])
	}
}

func TestMigrateUpAndDown(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	m := NewMigrator(db, NewFSSource(testSource(), "m"), nil)

	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("MigrateUp: %v", err)
	}
	if v, _ := m.CurrentVersion(ctx); v != 2 {
		t.Errorf("version = %d, want 2", v)
	}
	if !tableExists(t, db, "a") || !tableExists(t, db, "b") {
		t.Fatal("tables not created")
	}

	// Running again is a no-op
	if err := m.MigrateUp(ctx); err != nil {
		t.Fatalf("second MigrateUp: %v", err)
	}

	if err := m.MigrateTo(ctx, 1); err != nil {
		t.Fatalf("MigrateTo(1): %v", err)
	}
	if v, _ := m.CurrentVersion(ctx); v != 1 {
		t.Errorf("version = %d, want 1", v)
	}
	if tableExists(t, db, "b") || !tableExists(t, db, "a") {
		t.Error("rollback should drop only b")
	}
}

func TestMigrateMissingDirectory(t *testing.T) {
	m := NewMigrator(openDB(t), NewFSSource(fstest.MapFS{}, "nope"), nil)
	if err := m.MigrateUp(context.Background()); err == nil {
		t.Error("expected error for missing directory")
	}
}
