// Package appfs embeds the assets shipped with the binaries.
package appfs

import "embed"

// FS holds:
//   - migrations/*.sql: goose migrations
//   - fixtures/*.yaml: seed records, one file per resource
//   - templates/*.gohtml: HTML views
//
//go:embed migrations/*.sql fixtures/*.yaml templates/*.gohtml
var FS embed.FS

const (
	MigrationsDir = "migrations"
	FixturesDir   = "fixtures"
	TemplatesDir  = "templates"
)
