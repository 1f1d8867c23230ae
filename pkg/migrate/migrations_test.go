package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dcplibrary/notices-backend/pkg/migrate"
)

func TestMigrationDirIsValid(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migration dir invalid: %v", err)
	}
}

func TestSummaryMigrationCarriesNaturalKey(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_daily_notice_summaries.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no daily summary migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE daily_notice_summaries",
		"CONSTRAINT uq_daily_summary_key UNIQUE (summary_date, notice_type_id, delivery_method_id)",
		"DROP TABLE IF EXISTS daily_notice_summaries",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
