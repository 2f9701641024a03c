package db

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/rs/zerolog"
)

func newTestMigrator(fsys fstest.MapFS) *Migrator {
	return &Migrator{fsys: fsys, log: zerolog.Nop()}
}

func TestLoadMigrationsOrdersByVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"003_tasks.sql":    {Data: []byte("CREATE TABLE tasks ();")},
		"001_patients.sql": {Data: []byte("CREATE TABLE patients ();")},
		"002_vitals.sql":   {Data: []byte("CREATE TABLE vitals ();")},
	}

	migrations, err := newTestMigrator(fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations returned error: %v", err)
	}
	if len(migrations) != 3 {
		t.Fatalf("expected 3 migrations, got %d", len(migrations))
	}
	for i, want := range []int{1, 2, 3} {
		if migrations[i].Version != want {
			t.Errorf("migration %d: version = %d, want %d", i, migrations[i].Version, want)
		}
	}
	if migrations[0].Name != "patients" {
		t.Errorf("first migration name = %q, want %q", migrations[0].Name, "patients")
	}
}

func TestLoadMigrationsRejectsDuplicateVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"001_patients.sql": {Data: []byte("")},
		"001_vitals.sql":   {Data: []byte("")},
	}

	if _, err := newTestMigrator(fsys).LoadMigrations(); err == nil {
		t.Fatal("expected error for duplicate version, got nil")
	}
}

func TestLoadMigrationsRejectsBadPrefix(t *testing.T) {
	fsys := fstest.MapFS{
		"patients.sql": {Data: []byte("")},
	}

	if _, err := newTestMigrator(fsys).LoadMigrations(); err == nil {
		t.Fatal("expected error for missing version prefix, got nil")
	}
}

func TestLoadMigrationsSkipsNonSQL(t *testing.T) {
	fsys := fstest.MapFS{
		"001_patients.sql": {Data: []byte("")},
		"README.md":        {Data: []byte("notes")},
	}

	migrations, err := newTestMigrator(fsys).LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations returned error: %v", err)
	}
	if len(migrations) != 1 {
		t.Fatalf("expected 1 migration, got %d", len(migrations))
	}
}

func TestBuildStatusesCarriesAppliedAt(t *testing.T) {
	migrations := []Migration{
		{Version: 1, Name: "patients"},
		{Version: 2, Name: "vitals"},
	}
	at := time.Date(2026, 8, 1, 9, 30, 0, 0, time.UTC)

	statuses := buildStatuses(migrations, map[int]time.Time{1: at})
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	if !statuses[0].Applied || statuses[0].AppliedAt == nil || !statuses[0].AppliedAt.Equal(at) {
		t.Errorf("applied status = %+v, want applied at %v", statuses[0], at)
	}
	if statuses[1].Applied || statuses[1].AppliedAt != nil {
		t.Errorf("pending status = %+v, want unapplied with nil timestamp", statuses[1])
	}
}

func TestParseMigrationName(t *testing.T) {
	version, name, err := parseMigrationName("012_lab_results.sql")
	if err != nil {
		t.Fatalf("parseMigrationName returned error: %v", err)
	}
	if version != 12 {
		t.Errorf("version = %d, want 12", version)
	}
	if name != "lab_results" {
		t.Errorf("name = %q, want %q", name, "lab_results")
	}
}
