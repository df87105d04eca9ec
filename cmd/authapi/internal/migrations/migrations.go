// Package migrations holds the versioned schema migrations run by `authapi db migrate`.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the registry every migration file adds itself to from init.
var Migrations = migrate.NewMigrations()
