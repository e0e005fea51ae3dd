// Package migrations embeds the history database schema. Files apply in
// lexical order; the store tracks the applied set in schema_migrations.
package migrations

import "embed"

// FS holds the versioned .sql files compiled into the binary.
//
//go:embed *.sql
var FS embed.FS
