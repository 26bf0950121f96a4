package accounts

import (
	"embed"
)

//go:embed data/sql/migrations
var migrationsFS embed.FS

// GetMigrationsFS returns the embedded schema migrations for the users store
func GetMigrationsFS() embed.FS {
	return migrationsFS
}
