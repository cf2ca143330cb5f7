// Package notify carries the short success/info/warning/error messages the UI shows
// after user actions. Inbox keeps the recent ones in a go-notifications inbox for
// polling clients.
package notify
