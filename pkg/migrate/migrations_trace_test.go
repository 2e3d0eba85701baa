package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tavolohq/resto-trace-backend/pkg/migrate"
)

func TestMigrationsDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("validate migrations dir: %v", err)
	}
}

func readMigration(t *testing.T, pattern string) string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join("migrations", pattern))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no migration matching %q", pattern)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	return string(data)
}

func TestEventsMigrationContainsCompoundIndex(t *testing.T) {
	content := readMigration(t, "*_create_transaction_events.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS transaction_events",
		"transaction_id VARCHAR(64) NOT NULL",
		"ON transaction_events (transaction_id, timestamp)",
		"DROP TABLE IF EXISTS transaction_events",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestTransactionsMigrationContainsConstraints(t *testing.T) {
	content := readMigration(t, "*_create_transactions.sql")

	checks := []string{
		"CREATE TABLE IF NOT EXISTS transactions",
		"transaction_id VARCHAR(64) PRIMARY KEY",
		"CHECK (event_count >= 0)",
		"CHECK (version >= 1)",
		"ON transactions (start_time)",
		"DROP TABLE IF EXISTS transactions",
	}
	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
