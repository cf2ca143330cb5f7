// Package persistence is the gateway between the record and local storage: the
// key/value blob, the snapshot document store and the portable JSON envelope.
// Records are migrated and normalized on every way in.
package persistence
