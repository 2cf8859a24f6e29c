// Package migrations embeds the SQL migration files applied by goose
// when the SQLite engine opens a database.
package migrations

import "embed"

// FS contains all goose migration files.
//
//go:embed *.sql
var FS embed.FS
