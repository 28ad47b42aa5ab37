package migration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadMigrations_OrdersAndFilters(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V2__create_job_searches.sql", "CREATE TABLE b (id int);")
	writeFile(t, dir, "V1__create_user_profiles.sql", "CREATE TABLE a (id int);")
	writeFile(t, dir, "README.md", "not a migration")

	migs, err := loadMigrations(dir)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(migs) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migs))
	}
	if migs[0].Version != 1 || migs[1].Version != 2 {
		t.Fatalf("unexpected order %d,%d", migs[0].Version, migs[1].Version)
	}
	if migs[0].Name != "create_user_profiles" || migs[0].Checksum == "" {
		t.Fatalf("unexpected migration %+v", migs[0])
	}
}

func TestLoadMigrations_DuplicateVersion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__a.sql", "SELECT 1;")
	writeFile(t, dir, "V1__b.sql", "SELECT 2;")

	if _, err := loadMigrations(dir); err == nil {
		t.Fatalf("expected duplicate version error")
	}
}

func TestLoadMigrations_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "V1__empty.sql", "   \n")

	if _, err := loadMigrations(dir); err == nil {
		t.Fatalf("expected empty migration error")
	}
}

func TestLoadMigrations_MissingDir(t *testing.T) {
	migs, err := loadMigrations(filepath.Join(t.TempDir(), "nope"))
	if err != nil || migs != nil {
		t.Fatalf("expected nil result for missing dir, got %v %v", migs, err)
	}
}

func TestRun_NilDB(t *testing.T) {
	if err := (Runner{Dir: t.TempDir()}).Run(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil db")
	}
}
