// internal/app/features/profile/handler_test.go
package profile

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/ministryhub/internal/app/store/blobs"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"github.com/dalemusser/ministryhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*testutil.FakeGateway, string, http.Handler) {
	t.Helper()
	dir := t.TempDir()
	gw := testutil.NewFakeGateway()
	h := NewHandler(gw, blobs.New(dir, "/files/photos"), zap.NewNop())
	return gw, dir, Routes(h)
}

func asUser(req *http.Request) *http.Request {
	return auth.WithUser(req, &models.User{ID: "u1", Name: "Ana", Role: models.RoleMusician})
}

func TestUpdateProfileFields(t *testing.T) {
	gw, _, srv := newTestServer(t)
	gw.Seed("users", "u1", bson.M{"name": "Ana", "handle": "ana", "role": "musician", "active": true})

	body := `{"name":"  Ana Lima ","instrument":"violão"}`
	req := asUser(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(body)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusNoContent, rec.Body.String())
	}

	snap, err := gw.GetAll(req.Context(), "users")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if got := snap[0]["name"]; got != "Ana Lima" {
		t.Errorf("name: got %v, want %q", got, "Ana Lima")
	}
	if got := snap[0]["instrument"]; got != "violão" {
		t.Errorf("instrument: got %v, want %q", got, "violão")
	}
}

func TestUpdateRejectsEmptyName(t *testing.T) {
	_, _, srv := newTestServer(t)

	req := asUser(httptest.NewRequest(http.MethodPut, "/", strings.NewReader(`{"name":"   "}`)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestPhotoUploadStoresFileAndURL(t *testing.T) {
	gw, dir, srv := newTestServer(t)
	gw.Seed("users", "u1", bson.M{"name": "Ana", "handle": "ana", "role": "musician", "active": true})

	img := []byte{0xFF, 0xD8, 0xFF, 0xE0}
	body, _ := json.Marshal(map[string]string{"data": base64.StdEncoding.EncodeToString(img)})
	req := asUser(httptest.NewRequest(http.MethodPost, "/photo", strings.NewReader(string(body))))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d (body %s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp struct {
		PhotoURL string `json:"photo_url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.PhotoURL != "/files/photos/users/u1/photo.jpg" {
		t.Errorf("photo url: got %q, want /files/photos/users/u1/photo.jpg", resp.PhotoURL)
	}

	stored, err := os.ReadFile(filepath.Join(dir, "users", "u1", "photo.jpg"))
	if err != nil {
		t.Fatalf("stored photo: %v", err)
	}
	if len(stored) != len(img) {
		t.Errorf("stored photo size: got %d, want %d", len(stored), len(img))
	}

	snap, err := gw.GetAll(req.Context(), "users")
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	if got := snap[0]["photo_url"]; got != resp.PhotoURL {
		t.Errorf("roster photo_url: got %v, want %q", got, resp.PhotoURL)
	}
}

func TestPhotoRejectsBadBase64(t *testing.T) {
	_, _, srv := newTestServer(t)

	req := asUser(httptest.NewRequest(http.MethodPost, "/photo", strings.NewReader(`{"data":"not base64!!"}`)))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusBadRequest)
	}
}
