package notify

import (
	"context"
	"testing"

	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.uber.org/zap"
)

func newBus(t *testing.T) (*Bus, *testutil.FakeGateway) {
	t.Helper()
	gw := testutil.NewFakeGateway()
	mgr := feeds.New(gw, zap.NewNop())
	b := New(mgr, gw, zap.NewNop())
	t.Cleanup(b.Close)
	return b, gw
}

func TestPublish_AppearsInFeedUnread(t *testing.T) {
	b, _ := newBus(t)

	b.Publish(models.NotifyCreate, "New rehearsal on Thursday", models.AudienceMusicians)

	ns := b.Notifications()
	if len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(ns))
	}
	if ns[0].Read {
		t.Error("expected new notification to be unread")
	}
	if ns[0].Timestamp.IsZero() {
		t.Error("expected server timestamp")
	}
	if b.UnreadCount() != 1 {
		t.Errorf("unread: got %d, want 1", b.UnreadCount())
	}
}

func TestPublish_SanitizesMessage(t *testing.T) {
	b, _ := newBus(t)

	b.Publish(models.NotifyEdit, `<script>alert(1)</script>Service moved`, models.AudienceLeaders)

	ns := b.Notifications()
	if len(ns) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(ns))
	}
	if ns[0].Message != "Service moved" {
		t.Errorf("message: got %q, want %q", ns[0].Message, "Service moved")
	}
}

func TestMarkRead_DrivesUnreadToZero(t *testing.T) {
	b, _ := newBus(t)
	ctx := context.Background()

	b.Publish(models.NotifyCreate, "one", models.AudienceMusicians)
	b.Publish(models.NotifyEdit, "two", models.AudienceMusicians)
	b.Publish(models.NotifyDelete, "three", models.AudienceLeaders)

	if b.UnreadCount() != 3 {
		t.Fatalf("unread: got %d, want 3", b.UnreadCount())
	}

	for _, n := range b.Notifications() {
		if err := b.MarkRead(ctx, n.ID); err != nil {
			t.Fatalf("MarkRead(%s) failed: %v", n.ID, err)
		}
	}

	if b.UnreadCount() != 0 {
		t.Errorf("unread after marking all: got %d, want 0", b.UnreadCount())
	}
}

func TestMarkRead_Idempotent(t *testing.T) {
	b, _ := newBus(t)
	ctx := context.Background()

	b.Publish(models.NotifyCreate, "once", models.AudienceMusicians)
	id := b.Notifications()[0].ID

	if err := b.MarkRead(ctx, id); err != nil {
		t.Fatalf("first MarkRead failed: %v", err)
	}
	if err := b.MarkRead(ctx, id); err != nil {
		t.Fatalf("second MarkRead failed: %v", err)
	}

	ns := b.Notifications()
	if len(ns) != 1 || !ns[0].Read {
		t.Errorf("expected single read notification, got %+v", ns)
	}
	if b.UnreadCount() != 0 {
		t.Errorf("unread: got %d, want 0", b.UnreadCount())
	}
}

func TestPublish_GatewayDownIsLoggedNotFatal(t *testing.T) {
	b, gw := newBus(t)
	gw.FailWrites = true

	// Must not panic and must not surface an error to the caller.
	b.Publish(models.NotifyCreate, "dropped", models.AudienceMusicians)

	if b.UnreadCount() != 0 {
		t.Errorf("unread: got %d, want 0", b.UnreadCount())
	}
}

func TestWatch_DeliversAndCancels(t *testing.T) {
	b, _ := newBus(t)

	var last Update
	calls := 0
	cancel := b.Watch(func(u Update) {
		last = u
		calls++
	})

	if calls != 1 {
		t.Fatalf("expected immediate delivery, got %d calls", calls)
	}

	b.Publish(models.NotifyCreate, "hello", models.AudienceMusicians)
	if calls != 2 {
		t.Fatalf("expected delivery on publish, got %d calls", calls)
	}
	if last.Unread != 1 || len(last.Notifications) != 1 {
		t.Errorf("update: got %+v", last)
	}

	cancel()
	b.Publish(models.NotifyCreate, "after cancel", models.AudienceMusicians)
	if calls != 2 {
		t.Errorf("watcher fired after cancel: %d calls", calls)
	}
}
