package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prizelink/prizelink-backend/pkg/migrate"
)

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir failed validation: %v", err)
	}
}

func TestRegistrationsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_registrations.sql")

	checks := []string{
		"CREATE TYPE registration_status AS ENUM ('pending', 'accepted', 'verified')",
		"CREATE TABLE IF NOT EXISTS registrations",
		"id           TEXT PRIMARY KEY",
		"idx_registrations_key",
		"DROP TABLE IF EXISTS registrations",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestOfferMappingsMigrationSupportsLegacyAddressing(t *testing.T) {
	content := readMigration(t, "*_create_offer_mappings.sql")

	checks := []string{
		"offer_id          TEXT PRIMARY KEY",
		"network_offer_id",
		"idx_offer_mappings_network_offer_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration file matches %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}
