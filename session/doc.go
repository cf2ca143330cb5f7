// Package session is the application context of the builder: it owns the record
// being edited, applies form mutations, keeps the live preview current, autosaves
// after a quiet period and reports outcomes as notifications.
package session
