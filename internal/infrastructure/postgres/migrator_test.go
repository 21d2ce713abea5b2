package postgres

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunMigrationsMissingSource(t *testing.T) {
	err := RunMigrations("postgres://localhost:5432/db", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestRunMigrationsDownMissingSource(t *testing.T) {
	err := RunMigrationsDown("postgres://localhost:5432/db", filepath.Join(t.TempDir(), "missing"))
	if err == nil {
		t.Fatalf("expected error for missing migrations directory")
	}
}

func TestMigrationsArePaired(t *testing.T) {
	entries, err := os.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}

	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		}
	}

	if len(ups) == 0 {
		t.Fatalf("expected at least one migration")
	}
	for name := range ups {
		if !downs[name] {
			t.Errorf("migration %s has no down file", name)
		}
	}
}
