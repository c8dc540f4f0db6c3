// internal/app/features/notices/handler_test.go
package notices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/app/system/notify"
	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*notify.Bus, http.Handler) {
	t.Helper()
	log := zap.NewNop()
	gw := testutil.NewFakeGateway()
	bus := notify.New(feeds.New(gw, log), gw, log)
	t.Cleanup(bus.Close)
	return bus, Routes(NewHandler(bus, log))
}

func TestListReportsUnreadCount(t *testing.T) {
	bus, srv := newTestServer(t)
	bus.Publish("create", "Ana added a song", "musicians")
	bus.Publish("edit", "Ana updated the calendar", "musicians")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var resp notify.Update
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Notifications) != 2 {
		t.Fatalf("feed size: got %d, want 2", len(resp.Notifications))
	}
	if resp.Unread != 2 {
		t.Errorf("unread: got %d, want 2", resp.Unread)
	}
}

func TestMarkReadDropsUnreadCount(t *testing.T) {
	bus, srv := newTestServer(t)
	bus.Publish("create", "Ana added a song", "musicians")

	id := bus.Notifications()[0].ID
	req := httptest.NewRequest(http.MethodPost, "/"+id+"/read", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("mark-read status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := bus.UnreadCount(); got != 0 {
		t.Errorf("unread after mark-read: got %d, want 0", got)
	}
}
