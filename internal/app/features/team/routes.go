// internal/app/features/team/routes.go
package team

import (
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireLeader)
		r.Put("/{id}/active", h.HandleSetActive)
		r.Delete("/{id}", h.HandleRemove)
	})
	return r
}
