package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-cvbuilder/cv"
)

func newTestInbox(t *testing.T, capacity int) *Inbox {
	t.Helper()
	inbox, err := NewInbox(capacity, nil)
	if err != nil {
		t.Fatalf("new inbox: %v", err)
	}
	return inbox
}

func TestInbox_KeepsNewest(t *testing.T) {
	inbox := newTestInbox(t, 3)
	ctx := context.Background()
	for _, msg := range []string{"a", "b", "c", "d", "e"} {
		if err := inbox.Send(ctx, Notification{Message: msg}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	all, err := inbox.Since(ctx, 0)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 notifications, got %d", len(all))
	}
	if all[0].Message != "c" || all[2].Message != "e" {
		t.Fatalf("unexpected order %+v", all)
	}
	if all[0].ID != 3 || all[2].ID != 5 {
		t.Fatalf("unexpected ids %+v", all)
	}
	if all[0].Level != LevelInfo || all[0].At.IsZero() || all[0].Ref == "" {
		t.Fatalf("expected defaults, got %+v", all[0])
	}

	newer, err := inbox.Since(ctx, all[1].ID)
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	if len(newer) != 1 || newer[0].Message != "e" {
		t.Fatalf("unexpected since result %+v", newer)
	}

	last, ok := inbox.Last(ctx)
	if !ok || last.Message != "e" {
		t.Fatalf("unexpected last %+v", last)
	}
}

func TestInbox_UnreadAndMarkAllRead(t *testing.T) {
	inbox := newTestInbox(t, 2)
	ctx := context.Background()
	for _, level := range []Level{LevelSuccess, LevelError, LevelWarning} {
		if err := inbox.Send(ctx, Notification{Level: level, Message: string(level)}); err != nil {
			t.Fatalf("send: %v", err)
		}
	}

	unread, err := inbox.Unread(ctx)
	if err != nil {
		t.Fatalf("unread: %v", err)
	}
	if unread != 2 {
		t.Fatalf("expected dismissed entries to leave the badge, got %d", unread)
	}

	if err := inbox.MarkAllRead(ctx); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if unread, _ := inbox.Unread(ctx); unread != 0 {
		t.Fatalf("expected 0 unread, got %d", unread)
	}
	last, ok := inbox.Last(ctx)
	if !ok || !last.Read || last.Level != LevelWarning {
		t.Fatalf("unexpected last %+v", last)
	}
}

func TestInbox_RejectsBlankMessage(t *testing.T) {
	err := newTestInbox(t, 0).Send(context.Background(), Notification{Message: "  "})
	if !cv.IsKind(err, cv.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestInbox_EmptyLast(t *testing.T) {
	if _, ok := newTestInbox(t, 0).Last(context.Background()); ok {
		t.Fatalf("expected empty inbox")
	}
}

func TestFanout_ReturnsFirstError(t *testing.T) {
	inbox := newTestInbox(t, 2)
	boom := errors.New("boom")
	fan := Fanout{
		NotifierFunc(func(context.Context, Notification) error { return boom }),
		nil,
		inbox,
	}
	ctx := context.Background()
	if err := fan.Send(ctx, Notification{Level: LevelError, Message: "x"}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if items, _ := inbox.Since(ctx, 0); len(items) != 1 {
		t.Fatalf("expected delivery to continue after an error")
	}
}
