package migrations

import "embed"

// FS contains embedded SQLite migrations for engine snapshots.
//
//go:embed *.sql
var FS embed.FS
