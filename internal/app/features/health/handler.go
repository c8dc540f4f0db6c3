// internal/app/features/health/handler.go
package health

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const pingTimeout = 2 * time.Second

type Handler struct {
	Log    *zap.Logger
	Client *mongo.Client
}

func NewHandler(client *mongo.Client, logger *zap.Logger) *Handler {
	return &Handler{Log: logger, Client: client}
}

// HandleHealth reports liveness plus store reachability.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), pingTimeout)
	defer cancel()

	store := "ok"
	status := http.StatusOK
	if h.Client == nil {
		store = "not configured"
	} else if err := h.Client.Ping(ctx, readpref.Primary()); err != nil {
		h.Log.Warn("health check: store unreachable", zap.Error(err))
		store = "unreachable"
		status = http.StatusServiceUnavailable
	}

	httpjson.Write(w, status, map[string]string{
		"status": "up",
		"store":  store,
	})
}
