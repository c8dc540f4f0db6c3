// internal/app/features/calendar/handler_test.go
package calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/app/system/notify"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*testutil.FakeGateway, *notify.Bus, http.Handler) {
	t.Helper()
	log := zap.NewNop()
	gw := testutil.NewFakeGateway()
	mgr := feeds.New(gw, log)
	bus := notify.New(mgr, gw, log)
	t.Cleanup(bus.Close)
	h := NewHandler(mgr, gw, bus, log)
	return gw, bus, Routes(h)
}

func asLeader(req *http.Request) *http.Request {
	return auth.WithUser(req, &models.User{ID: "u0", Name: "Ana", Role: models.RoleLeader})
}

func TestListOrdersByDate(t *testing.T) {
	gw, _, srv := newTestServer(t)
	gw.Seed("events", "e2", bson.M{"title": "Sunday Service", "date": "2026-09-06", "time": "09:00", "kind": "service"})
	gw.Seed("events", "e1", bson.M{"title": "Rehearsal", "date": "2026-09-03", "time": "19:30", "kind": "rehearsal"})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusOK)
	}
	var events []models.CalendarEvent
	if err := json.Unmarshal(rec.Body.Bytes(), &events); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("event count: got %d, want 2", len(events))
	}
	if events[0].Date != "2026-09-03" {
		t.Errorf("first event date: got %q, want 2026-09-03", events[0].Date)
	}
}

func TestSaveCreatesEventAndAnnouncesIt(t *testing.T) {
	gw, bus, srv := newTestServer(t)

	body := `{"title":"Rehearsal","date":"2026-09-03","time":"19:30","kind":"rehearsal"}`
	req := asLeader(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if gw.Count("events") != 1 {
		t.Fatalf("event docs: got %d, want 1", gw.Count("events"))
	}

	ns := bus.Notifications()
	if len(ns) != 1 {
		t.Fatalf("notifications: got %d, want 1", len(ns))
	}
	if ns[0].Kind != models.NotifyCreate {
		t.Errorf("notification kind: got %q, want %q", ns[0].Kind, models.NotifyCreate)
	}
	if !strings.Contains(ns[0].Message, "Rehearsal") {
		t.Errorf("notification message %q does not name the event", ns[0].Message)
	}
}

func TestSaveRejectsBadDate(t *testing.T) {
	_, _, srv := newTestServer(t)

	body := `{"title":"Rehearsal","date":"03/09/2026","time":"19:30","kind":"rehearsal"}`
	req := asLeader(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestSaveRequiresLeader(t *testing.T) {
	_, _, srv := newTestServer(t)

	body := `{"title":"Rehearsal","date":"2026-09-03","time":"19:30","kind":"rehearsal"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req = auth.WithUser(req, &models.User{ID: "u2", Name: "Bia", Role: models.RoleMusician})
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestDeleteAnnouncesRemoval(t *testing.T) {
	gw, bus, srv := newTestServer(t)
	gw.Seed("events", "e1", bson.M{"title": "Rehearsal", "date": "2026-09-03", "time": "19:30", "kind": "rehearsal"})

	req := asLeader(httptest.NewRequest(http.MethodDelete, "/e1", nil))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusNoContent)
	}
	if gw.Count("events") != 0 {
		t.Errorf("event docs after delete: got %d, want 0", gw.Count("events"))
	}

	ns := bus.Notifications()
	if len(ns) != 1 || ns[0].Kind != models.NotifyDelete {
		t.Fatalf("notifications: got %+v, want one delete entry", ns)
	}
	if !strings.Contains(ns[0].Message, "Rehearsal") {
		t.Errorf("delete message %q does not name the event", ns[0].Message)
	}
}
