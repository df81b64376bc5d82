// Package migrations embeds the goose migrations for the users and sessions tables.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
