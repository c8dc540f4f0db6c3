// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/httpjson"
	"github.com/dalemusser/ministryhub/internal/app/system/session"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ViewCodec  *session.ViewCodec
	Secure     bool
}

func NewHandler(sessionMgr *auth.SessionManager, viewCodec *session.ViewCodec, secure bool, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
		ViewCodec:  viewCodec,
		Secure:     secure,
	}
}

// HandleLogout handles POST /logout: deletes the auth cookie and clears
// the persisted view, so the next bootstrap lands on the login screen.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}

	router := session.NewRouter(h.ViewCodec.NewCookieViewStore(w, r, h.Secure, h.Log), h.Log)
	router.SignOut()

	httpjson.Write(w, http.StatusOK, map[string]string{"view": string(session.ViewLogin)})
}
