// Package mediatrace holds assets shared by the commands, such as the
// embedded database migrations.
package mediatrace

import "embed"

// Migrations contains the goose SQL migrations for the postgres storage.
//
//go:embed migrations/*.sql
var Migrations embed.FS
