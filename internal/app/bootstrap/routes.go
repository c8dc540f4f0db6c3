// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	attendancefeature "github.com/dalemusser/ministryhub/internal/app/features/attendance"
	calendarfeature "github.com/dalemusser/ministryhub/internal/app/features/calendar"
	healthfeature "github.com/dalemusser/ministryhub/internal/app/features/health"
	loginfeature "github.com/dalemusser/ministryhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/ministryhub/internal/app/features/logout"
	noticesfeature "github.com/dalemusser/ministryhub/internal/app/features/notices"
	profilefeature "github.com/dalemusser/ministryhub/internal/app/features/profile"
	sessionfeature "github.com/dalemusser/ministryhub/internal/app/features/session"
	songsfeature "github.com/dalemusser/ministryhub/internal/app/features/songs"
	teamfeature "github.com/dalemusser/ministryhub/internal/app/features/team"
	"github.com/dalemusser/ministryhub/internal/app/store/blobs"
	"github.com/dalemusser/ministryhub/internal/app/store/remote"
	"github.com/dalemusser/ministryhub/internal/app/system/accounts"
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/dalemusser/ministryhub/internal/app/system/confirm"
	"github.com/dalemusser/ministryhub/internal/app/system/feeds"
	"github.com/dalemusser/ministryhub/internal/app/system/identity"
	"github.com/dalemusser/ministryhub/internal/app/system/notify"
	"github.com/dalemusser/ministryhub/internal/app/system/session"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and Startup have completed. It wires the remote store gateway, the
// live-feed manager, the notification bus, the attendance service
// selected by configuration, and mounts one feature router per
// application area.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"

	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName,
		appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	gw := remote.NewMongoGateway(deps.MongoDatabase, logger)
	resolver := identity.New(gw, logger)
	sessionMgr.SetResolver(resolver)

	mgr := feeds.New(gw, logger)
	bus := notify.New(mgr, gw, logger)

	provider := accounts.NewLocal(gw, appCfg.AccountDomain, appCfg.SignupEnabled, logger)
	viewCodec := session.NewViewCodec(appCfg.SessionKey)
	photoStore := blobs.New(appCfg.PhotoLocalPath, appCfg.PhotoLocalURL)

	var attendanceSvc confirm.Service
	if appCfg.ConfirmationsBackend == confirm.BackendLegacy {
		attendanceSvc = confirm.NewLegacy(appCfg.ConfirmationsBlobPath, logger)
	} else {
		attendanceSvc = confirm.NewShared(gw, logger)
	}
	logger.Info("attendance backend selected",
		zap.String("backend", appCfg.ConfirmationsBackend))

	r := chi.NewRouter()

	// Loads the session's user into context on every request, so role
	// changes and removals take effect immediately.
	r.Use(sessionMgr.LoadSessionUser)

	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))
	r.Mount("/login", loginfeature.Routes(loginfeature.NewHandler(
		provider, resolver, sessionMgr, viewCodec, gw, secure, logger)))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, viewCodec, secure, logger)))
	r.Mount("/session", sessionfeature.Routes(sessionfeature.NewHandler(viewCodec, secure, logger)))

	// Everything below needs a signed-in user.
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Mount("/team", teamfeature.Routes(teamfeature.NewHandler(mgr, gw, logger)))
		r.Mount("/calendar", calendarfeature.Routes(calendarfeature.NewHandler(mgr, gw, bus, logger)))
		r.Mount("/songs", songsfeature.Routes(songsfeature.NewHandler(mgr, gw, bus, logger)))
		r.Mount("/notices", noticesfeature.Routes(noticesfeature.NewHandler(bus, logger)))
		r.Mount("/attendance", attendancefeature.Routes(attendancefeature.NewHandler(attendanceSvc, logger)))
		r.Mount("/profile", profilefeature.Routes(profilefeature.NewHandler(gw, photoStore, logger)))
	})

	// Serve stored profile photos.
	r.Handle(appCfg.PhotoLocalURL+"/*", http.StripPrefix(appCfg.PhotoLocalURL+"/",
		http.FileServer(http.Dir(photoStore.Dir()))))

	return r, nil
}
