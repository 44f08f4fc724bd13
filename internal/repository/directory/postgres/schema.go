package postgres

import _ "embed"

// Schema is the DDL of the directory tables.
//
//go:embed schema.sql
var Schema string
