package postgres

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestNewTableNames(t *testing.T) {
	tables := NewTableNames("dev_")

	want := []string{"dev_banks", "dev_folders", "dev_resumes", "dev_blobs", "dev_companies"}
	got := tables.All()
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("All()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		duplicate bool
		noRows    bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true, false},
		{"wrapped unique violation", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true, false},
		{"no rows", fmt.Errorf("get: %w", pgx.ErrNoRows), false, true},
		{"other constraint", &pgconn.PgError{Code: "23503"}, false, false},
		{"plain error", fmt.Errorf("boom"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsPgDuplicateError(tt.err); got != tt.duplicate {
				t.Errorf("IsPgDuplicateError = %v", got)
			}
			if got := IsPgNoRowsError(tt.err); got != tt.noRows {
				t.Errorf("IsPgNoRowsError = %v", got)
			}
		})
	}
}

func TestFirstLine(t *testing.T) {
	if got := firstLine("\n  CREATE TABLE x (\n id TEXT\n)"); got != "CREATE TABLE x (" {
		t.Errorf("firstLine = %q", got)
	}
}
