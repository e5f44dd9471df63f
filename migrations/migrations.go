// Package migrations embeds the PostgreSQL schema so binaries can migrate
// without a checkout.
package migrations

import "embed"

// FS holds the numbered up/down SQL files.
//
//go:embed *.sql
var FS embed.FS
