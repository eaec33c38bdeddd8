// Package migrations carries the schema migration files, embedded so the
// worker binary can bring a database up to date without shipping SQL
// files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
