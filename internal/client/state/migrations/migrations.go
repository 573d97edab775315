// Package migrations embeds the schema migrations of the local state file.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
