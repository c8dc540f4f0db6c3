// internal/app/features/notices/routes.go
package notices

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.HandleList)
	r.Get("/stream", h.HandleStream)
	r.Post("/{id}/read", h.HandleMarkRead)
	return r
}
