package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts every route on a chi router.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/status", h.Status)
	r.Get("/stats", h.Stats)

	r.Post("/users", h.CreateUser)
	r.Get("/users/me", h.Me)
	r.Get("/connect", h.Connect)
	r.Get("/disconnect", h.Disconnect)

	r.Post("/files", h.CreateFile)
	r.Get("/files", h.ListFiles)
	r.Get("/files/{id}", h.GetFile)
	r.Put("/files/{id}/publish", h.Publish)
	r.Put("/files/{id}/unpublish", h.Unpublish)
	r.Get("/files/{id}/data", h.FileData)

	return r
}
