// internal/app/features/session/handler.go
package session

import (
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	sessions "github.com/dalemusser/ministryhub/internal/app/system/session"
	"github.com/dalemusser/ministryhub/internal/domain/models"
	"go.uber.org/zap"
)

type Handler struct {
	ViewCodec *sessions.ViewCodec
	Secure    bool
	Log       *zap.Logger
}

func NewHandler(viewCodec *sessions.ViewCodec, secure bool, logger *zap.Logger) *Handler {
	return &Handler{ViewCodec: viewCodec, Secure: secure, Log: logger}
}

type bootstrapResponse struct {
	User *models.User  `json:"user"`
	View sessions.View `json:"view"`
}

type navigateRequest struct {
	View string `json:"view"`
}

// HandleBootstrap handles GET /session: re-resolves the cookie's
// subject into a user and reports which screen the client should show.
// No session yields user=null and the login view, not an error.
func (h *Handler) HandleBootstrap(w http.ResponseWriter, r *http.Request) {
	router := sessions.NewRouter(h.ViewCodec.NewCookieViewStore(w, r, h.Secure, h.Log), h.Log)
	router.Begin()

	u, _ := auth.CurrentUser(r)
	view := router.Resolve(u)

	httpjson.Write(w, http.StatusOK, bootstrapResponse{User: u, View: view})
}

// HandleNavigate handles PUT /session/view: records a screen change.
// Role-gated and unknown screens substitute the role's home screen in
// the response; the client renders whatever comes back.
func (h *Handler) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "Not signed in.")
		return
	}

	var req navigateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	router := sessions.NewRouter(h.ViewCodec.NewCookieViewStore(w, r, h.Secure, h.Log), h.Log)
	router.Begin()
	router.Resolve(u)
	view := router.Navigate(sessions.View(req.View))

	httpjson.Write(w, http.StatusOK, map[string]string{"view": string(view)})
}
