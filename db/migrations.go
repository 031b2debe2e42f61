package db

import "embed"

// Migrations holds the SQL schema migrations shared by the API's auto
// migrate step and cmd/migration.
//
//go:embed migrations/*.sql
var Migrations embed.FS
