package database

import "testing"

func TestSplitSQLStatements(t *testing.T) {
	sql := `
		-- schema
		CREATE SCHEMA IF NOT EXISTS lang_exch;

		CREATE TABLE t (
			id INTEGER
		);
		SELECT 1`

	statements := splitSQLStatements(sql)
	if len(statements) != 3 {
		t.Fatalf("expected 3 statements, got %d: %q", len(statements), statements)
	}
	if statements[0] != "CREATE SCHEMA IF NOT EXISTS lang_exch;" {
		t.Fatalf("unexpected first statement: %q", statements[0])
	}
	if statements[2] != "SELECT 1" {
		t.Fatalf("unexpected trailing statement: %q", statements[2])
	}
}

func TestSplitSQLStatements_Schemas(t *testing.T) {
	if got := len(splitSQLStatements(postgresSchema)); got != 2 {
		t.Fatalf("expected 2 postgres schema statements, got %d", got)
	}
	if got := len(splitSQLStatements(sqliteSchema)); got != 1 {
		t.Fatalf("expected 1 sqlite schema statement, got %d", got)
	}
}
