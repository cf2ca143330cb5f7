package notify

import (
	"context"
	"time"

	"github.com/goliatone/go-cvbuilder/cv"
)

// Level is the severity shown with a notification.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a short user-facing message. Ref and Read are filled by the
// Inbox.
type Notification struct {
	ID      uint64    `json:"id"`
	Ref     string    `json:"ref,omitempty"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	At      time.Time `json:"at"`
}

// Notifier delivers notifications.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, n Notification) error

func (fn NotifierFunc) Send(ctx context.Context, n Notification) error {
	return fn(ctx, n)
}

// Log writes notifications to a logger at the matching level.
type Log struct {
	Logger cv.Logger
}

func (l Log) Send(ctx context.Context, n Notification) error {
	_ = ctx
	logger := cv.LoggerOr(l.Logger)
	switch n.Level {
	case LevelError:
		logger.Errorf("notification: %s", n.Message)
	case LevelWarning:
		logger.Warnf("notification: %s", n.Message)
	default:
		logger.Infof("notification: %s", n.Message)
	}
	return nil
}

// Fanout sends to every notifier and returns the first error.
type Fanout []Notifier

func (f Fanout) Send(ctx context.Context, n Notification) error {
	var first error
	for _, notifier := range f {
		if notifier == nil {
			continue
		}
		if err := notifier.Send(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
