// Package migrations embeds the order-management schema.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files of this directory.
//
//go:embed *.sql
var FS embed.FS
