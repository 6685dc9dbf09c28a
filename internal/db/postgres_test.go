package db_test

import (
	"testing"

	"github.com/umbraco/Umbraco.AI-sub015/internal/db"
)

func TestMigrationURL(t *testing.T) {
	cases := map[string]string{
		"postgres://u:p@localhost:5432/backoffice":   "pgx5://u:p@localhost:5432/backoffice",
		"postgresql://u:p@localhost:5432/backoffice": "pgx5://u:p@localhost:5432/backoffice",
		"pgx5://localhost/backoffice":                "pgx5://localhost/backoffice",
	}
	for in, want := range cases {
		if got := db.MigrationURL(in); got != want {
			t.Errorf("MigrationURL(%q) = %q, want %q", in, got, want)
		}
	}
}
