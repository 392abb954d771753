package sql

import _ "embed"

// Schema is the full database schema plus seed rows. Every statement is
// idempotent, so it can be re-applied to an existing database.
//
//go:embed schema.sql
var Schema string
