// internal/app/features/attendance/routes.go
package attendance

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{eventID}", h.HandleStatus)
	r.Post("/{eventID}/toggle", h.HandleToggle)
	return r
}
