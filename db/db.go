// Package db ships the SQL schema and seed fixtures with the binaries.
package db

import "embed"

// Migrations holds the ordered NNNN_name.up.sql / .down.sql files.
//
//go:embed migrations/*.sql
var Migrations embed.FS
