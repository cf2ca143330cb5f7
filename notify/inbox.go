package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-notifications/pkg/domain"
	"github.com/goliatone/go-notifications/pkg/inbox"
	"github.com/goliatone/go-notifications/pkg/interfaces/broadcaster"
	notiflogger "github.com/goliatone/go-notifications/pkg/interfaces/logger"
	"github.com/goliatone/go-notifications/pkg/interfaces/store"
	"github.com/goliatone/go-notifications/pkg/storage"

	"github.com/goliatone/go-cvbuilder/cv"
)

// DefaultCapacity is the number of notifications an Inbox keeps visible.
const DefaultCapacity = 50

// Recipient is the inbox user id. The builder has a single local user.
const Recipient = "local"

const (
	metaSeq   = "seq"
	metaLevel = "level"
	metaAt    = "at"
)

// Inbox stores notifications in a go-notifications inbox service backed by
// memory providers. Entries beyond capacity are dismissed, oldest first.
type Inbox struct {
	svc      *inbox.Service
	capacity int
	now      func() time.Time

	mu  sync.Mutex
	seq uint64
}

// NewInbox creates an inbox keeping up to capacity notifications.
func NewInbox(capacity int, logger cv.Logger) (*Inbox, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	providers := storage.NewMemoryProviders()
	svc, err := inbox.New(inbox.Dependencies{
		Repository:  providers.Inbox,
		Broadcaster: &broadcaster.Nop{},
		Logger:      logSink{logger: cv.LoggerOr(logger)},
	})
	if err != nil {
		return nil, cv.NewError(cv.KindInternal, "create notification inbox", err)
	}
	return &Inbox{svc: svc, capacity: capacity, now: time.Now}, nil
}

// Send stores n. ID and At are assigned when missing, Level defaults to info.
func (b *Inbox) Send(ctx context.Context, n Notification) error {
	if strings.TrimSpace(n.Message) == "" {
		return cv.NewError(cv.KindValidation, "notification message is required", nil)
	}
	if n.Level == "" {
		n.Level = LevelInfo
	}
	if n.At.IsZero() {
		n.At = b.now()
	}

	// Sequence assignment and insertion stay ordered so Since never skips an id.
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	_, err := b.svc.Create(ctx, inbox.CreateInput{
		UserID: Recipient,
		Title:  string(n.Level),
		Body:   n.Message,
		Metadata: domain.JSONMap{
			metaSeq:   b.seq,
			metaLevel: string(n.Level),
			metaAt:    n.At,
		},
	})
	if err != nil {
		return cv.NewError(cv.KindInternal, "store notification", err)
	}
	return b.trim(ctx)
}

func (b *Inbox) trim(ctx context.Context) error {
	items, err := b.list(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < len(items)-b.capacity; i++ {
		if err := b.svc.Dismiss(ctx, Recipient, items[i].Ref); err != nil {
			return cv.NewError(cv.KindInternal, "dismiss notification", err)
		}
	}
	return nil
}

// Since returns visible notifications with an ID greater than after, oldest first.
func (b *Inbox) Since(ctx context.Context, after uint64) ([]Notification, error) {
	items, err := b.list(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Notification, 0, len(items))
	for _, n := range items {
		if n.ID > after {
			out = append(out, n)
		}
	}
	return out, nil
}

// Last returns the newest notification.
func (b *Inbox) Last(ctx context.Context) (Notification, bool) {
	items, err := b.list(ctx)
	if err != nil || len(items) == 0 {
		return Notification{}, false
	}
	return items[len(items)-1], true
}

// Unread counts visible notifications not yet marked read.
func (b *Inbox) Unread(ctx context.Context) (int, error) {
	count, err := b.svc.BadgeCount(ctx, Recipient)
	if err != nil {
		return 0, cv.NewError(cv.KindInternal, "count unread notifications", err)
	}
	return count, nil
}

// MarkAllRead marks every visible notification read.
func (b *Inbox) MarkAllRead(ctx context.Context) error {
	items, err := b.list(ctx)
	if err != nil {
		return err
	}
	refs := make([]string, 0, len(items))
	for _, n := range items {
		if !n.Read {
			refs = append(refs, n.Ref)
		}
	}
	if len(refs) == 0 {
		return nil
	}
	if err := b.svc.MarkRead(ctx, Recipient, refs, true); err != nil {
		return cv.NewError(cv.KindInternal, "mark notifications read", err)
	}
	return nil
}

func (b *Inbox) list(ctx context.Context) ([]Notification, error) {
	result, err := b.svc.List(ctx, Recipient, store.ListOptions{}, inbox.ListFilters{})
	if err != nil {
		return nil, cv.NewError(cv.KindInternal, "list notifications", err)
	}
	out := make([]Notification, 0, len(result.Items))
	for _, item := range result.Items {
		out = append(out, fromItem(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func fromItem(item domain.InboxItem) Notification {
	n := Notification{
		Ref:     item.ID.String(),
		Level:   Level(item.Title),
		Message: item.Body,
		Read:    !item.Unread,
		At:      item.CreatedAt,
	}
	switch seq := item.Metadata[metaSeq].(type) {
	case uint64:
		n.ID = seq
	case float64:
		// JSON-backed repositories decode numbers as float64.
		n.ID = uint64(seq)
	}
	if level, ok := item.Metadata[metaLevel].(string); ok && level != "" {
		n.Level = Level(level)
	}
	if at, ok := item.Metadata[metaAt].(time.Time); ok && !at.IsZero() {
		n.At = at
	}
	return n
}

// logSink routes go-notifications logs to a cv.Logger.
type logSink struct {
	logger cv.Logger
}

func (l logSink) Trace(msg string, args ...any) { l.logger.Debugf("%s", line(msg, args)) }
func (l logSink) Debug(msg string, args ...any) { l.logger.Debugf("%s", line(msg, args)) }
func (l logSink) Info(msg string, args ...any)  { l.logger.Infof("%s", line(msg, args)) }
func (l logSink) Warn(msg string, args ...any)  { l.logger.Warnf("%s", line(msg, args)) }
func (l logSink) Error(msg string, args ...any) { l.logger.Errorf("%s", line(msg, args)) }
func (l logSink) Fatal(msg string, args ...any) { l.logger.Errorf("%s", line(msg, args)) }

func (l logSink) WithContext(context.Context) notiflogger.Logger { return l }

func line(msg string, args []any) string {
	if len(args) == 0 {
		return "notifications: " + msg
	}
	return fmt.Sprintf("notifications: %s %v", msg, args)
}

var _ notiflogger.Logger = logSink{}
