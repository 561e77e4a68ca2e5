package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/plumeworks/plume-be/internal/api/handlers"
	"github.com/plumeworks/plume-be/internal/maintenance"
	"github.com/plumeworks/plume-be/internal/services"
	"github.com/plumeworks/plume-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	hub *websocket.Hub,
	articleService services.ArticleServiceProvider,
	commentService services.CommentServiceProvider,
	userService services.UserServiceProvider,
	eventService services.EventServiceProvider,
	credentialStore maintenance.CredentialStore,
	allowedOrigins []string,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	articleHandler := handlers.NewArticleHandler(articleService)
	commentHandler := handlers.NewCommentHandler(commentService)
	userHandler := handlers.NewUserHandler(userService)
	eventHandler := handlers.NewEventHandler(eventService)
	maintenanceHandler := handlers.NewMaintenanceHandler(credentialStore, eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Live event feed
		r.Get("/ws", wsHandler.Serve)

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articleHandler.GetAll)
			r.Get("/search", articleHandler.Search)
			r.Post("/", articleHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", articleHandler.Get)
				r.Put("/", articleHandler.Update)
				r.Delete("/", articleHandler.Delete)
				r.Get("/comments", commentHandler.GetForArticle)
				r.Post("/comments", commentHandler.Create)
			})
		})

		r.Delete("/comments/{commentId}", commentHandler.Delete)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", userHandler.Create)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", userHandler.Get)
				r.Put("/", userHandler.Update)
				r.Delete("/", userHandler.Delete)
			})
		})

		r.Get("/events", eventHandler.GetRecent)

		r.Post("/maintenance/credentials", maintenanceHandler.UpgradeCredentials)
	})

	return r
}
