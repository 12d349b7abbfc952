package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ledgard/magpie/internal/itemservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
func NewRouter(svc *itemservice.Service, authEnabled bool, token string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Items CRUD.
	r.Get("/items", h.ListItems)
	r.Post("/items", h.CreateItem)
	r.Get("/items/{id}", h.GetItem)
	r.Put("/items/{id}", h.UpdateItem)
	r.Delete("/items/{id}", h.DeleteItem)

	// Ranked full-text search.
	r.Get("/search", h.Search)

	// Full index rebuild from the record store.
	r.Post("/reindex", h.Reindex)

	return r
}
