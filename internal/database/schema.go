package database

import "strings"

const postgresSchemaName = "lang_exch"

const postgresSchema = `
	CREATE SCHEMA IF NOT EXISTS lang_exch;

	CREATE TABLE IF NOT EXISTS lang_exch.languages (
		lang_id BIGSERIAL PRIMARY KEY,
		lang_name VARCHAR(20) NOT NULL UNIQUE
	);
`

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS languages (
		lang_id INTEGER PRIMARY KEY AUTOINCREMENT,
		lang_name VARCHAR(20) NOT NULL UNIQUE
	);
`

// splitSQLStatements splits a SQL string into individual statements.
// It handles comments and only returns non-empty statements.
func splitSQLStatements(sql string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.SplitSeq(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		if strings.HasSuffix(trimmed, ";") {
			stmt := strings.TrimSpace(current.String())
			if stmt != "" && stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	// Handle any remaining content without trailing semicolon
	if remaining := strings.TrimSpace(current.String()); remaining != "" {
		statements = append(statements, remaining)
	}

	return statements
}
