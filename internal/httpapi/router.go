package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the full HTTP surface: the JSON API under /api and
// the websocket chat stream under /ws/chat.
func NewRouter(h *Handler, ws *ChatStream) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(Sessions(h.tokens))

	router.Route("/api", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/admins", h.addAdmin)

		r.Get("/profiles/{username}", h.getProfile)
		r.Put("/profile", h.updateProfile)

		r.Route("/feeds/{feed}", func(r chi.Router) {
			r.Get("/posts", h.listPosts)
			r.Post("/posts", h.addPost)
			r.Post("/posts/{id}/comments", h.addComment)
			r.Post("/posts/{id}/likes", h.like)
		})

		r.Get("/chat", h.recentChat)
		r.Post("/chat", h.sendChat)

		r.Get("/theme", h.getTheme)
		r.Put("/theme", h.setTheme)
	})

	router.Get("/ws/chat", ws.ServeHTTP)

	return router
}
