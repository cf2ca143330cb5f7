// Package exportsqlite renders a CV as a SQLite database file: a meta table, the
// personal row and one table per list section.
//
//	_ = renderers.Register(export.FormatSQLite, exportsqlite.Renderer{})
//
// Set TablePrefix to namespace the tables.
package exportsqlite
