// Package migrations holds the scan history and vision cache schema.
package migrations

import "embed"

// FS holds the numbered up/down migrations applied by the sqlite store.
//
//go:embed *.sql
var FS embed.FS
