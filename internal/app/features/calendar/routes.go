// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/dalemusser/ministryhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireLeader)
		r.Post("/", h.HandleSave)
		r.Delete("/{id}", h.HandleDelete)
	})
	return r
}
