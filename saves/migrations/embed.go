package migrations

import "embed"

// FS contains the embedded save slot migrations.
//
//go:embed *.sql
var FS embed.FS
