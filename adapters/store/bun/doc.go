// Package storebun is the embedded document store: named CV snapshots and settings
// in SQLite through Bun.
package storebun
