// Package db holds the embedded database schema.
package db

import _ "embed"

// Schema contains the DDL for every EcoStore table. It is executed as a single
// script at startup; all statements are idempotent.
//
//go:embed migrations/001_schema.sql
var Schema string
