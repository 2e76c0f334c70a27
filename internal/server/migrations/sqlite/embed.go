// Package sqlite embeds the goose migrations for SQLite.
package sqlite

import "embed"

//go:embed *.sql
var Migrations embed.FS
