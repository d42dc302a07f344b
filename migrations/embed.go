// Package migrations embeds the SQL schema files.
package migrations

import "embed"

// FS holds the up and down migrations in golang-migrate naming.
//
//go:embed *.sql
var FS embed.FS
