// Package migrations embeds the schema migration scripts so the binary can
// bootstrap a fresh database without shipping loose .sql files.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
