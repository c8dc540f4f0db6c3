// internal/app/features/profile/handler.go
package profile

import (
	"encoding/base64"
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/store/blobs"
	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/dalemusser/ministryhub/internal/app/system/normalize"
	"github.com/microcosm-cc/bluemonday"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// maxPhotoBytes caps profile photo uploads at 5 MB.
const maxPhotoBytes = 5 << 20

type Handler struct {
	Gateway  remote.Gateway
	Blobs    *blobs.Store
	Log      *zap.Logger
	sanitize *bluemonday.Policy
}

func NewHandler(gw remote.Gateway, blobStore *blobs.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Gateway:  gw,
		Blobs:    blobStore,
		Log:      logger,
		sanitize: bluemonday.StrictPolicy(),
	}
}

type updateRequest struct {
	Name       string `json:"name"`
	Instrument string `json:"instrument,omitempty"`
}

type photoRequest struct {
	Data string `json:"data"` // base64-encoded image bytes
}

// HandleUpdate handles PUT /profile: the signed-in user edits their own
// display name and instrument. Role and active status are leader
// territory and not touchable here.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	name := normalize.Name(h.sanitize.Sanitize(req.Name))
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "Name cannot be empty.")
		return
	}

	fields := bson.M{
		"name":       name,
		"instrument": h.sanitize.Sanitize(req.Instrument),
	}
	if _, err := h.Gateway.Upsert(r.Context(), remote.CollUsers, u.ID, fields); err != nil {
		h.Log.Error("update profile", zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not save your profile.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePhoto handles POST /profile/photo: stores the uploaded image
// and points the roster record at its new URL.
func (h *Handler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	u, _ := auth.CurrentUser(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	var req photoRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil || len(data) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Photo data must be base64-encoded.")
		return
	}

	url, err := h.Blobs.Upload("users/"+u.ID+"/photo.jpg", data)
	if err != nil {
		h.Log.Error("store profile photo", zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "Could not store the photo.")
		return
	}

	if _, err := h.Gateway.Upsert(r.Context(), remote.CollUsers, u.ID, bson.M{"photo_url": url}); err != nil {
		h.Log.Error("update photo url", zap.String("user_id", u.ID), zap.Error(err))
		httpjson.Error(w, http.StatusServiceUnavailable, "Could not save the photo.")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]string{"photo_url": url})
}
