// Package cvhttp serves the local editing UI over fiber: the preview page, the form
// API that mutates the session, exports, imports and snapshots.
//
// Errors are written as {"error":{"message","code"}} with the status derived from the
// go-errors category of the failure.
package cvhttp
