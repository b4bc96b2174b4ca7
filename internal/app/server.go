package app

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cybermozhi/cybermozhi-server/internal/api/handlers"
	appMiddleware "github.com/cybermozhi/cybermozhi-server/internal/api/middlewares"
	"github.com/cybermozhi/cybermozhi-server/internal/config"
	"github.com/cybermozhi/cybermozhi-server/internal/core"
	"github.com/cybermozhi/cybermozhi-server/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, db core.DbClient, chat *services.ChatService, drafter *services.DraftService, summarizer *services.SummaryService) *Server {
	authHandler := handlers.NewAuthHandler(db)
	chatHandler := handlers.NewChatHandler(db, chat)
	docHandler := handlers.NewDocumentHandler(drafter)
	summaryHandler := handlers.NewSummaryHandler(summarizer)
	contentHandler := handlers.NewContentHandler()
	profileHandler := handlers.NewProfileHandler(db)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8888"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)
		api.Get("/content/laws", contentHandler.ListLaws)
		api.Get("/content/glossary", contentHandler.ListGlossary)

		// chat and drafting serve guests and logged-in users alike
		api.Group(func(open chi.Router) {
			open.Use(appMiddleware.OptionalJWT)
			open.Post("/chat/query", chatHandler.Query)
			open.Post("/documents/draft", docHandler.Draft)
			open.Post("/attacks/summarize", summaryHandler.Summarize)
		})

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(appMiddleware.JWTMiddleware)
			protected.Get("/chat/sessions", chatHandler.ListSessions)
			protected.Get("/chat/sessions/{id}/messages", chatHandler.GetSessionMessages)
			protected.Delete("/chat/sessions/{id}", chatHandler.DeleteSession)
			protected.Get("/documents/drafts", docHandler.ListDrafts)
			protected.Get("/profile", profileHandler.Get)
			protected.Put("/profile", profileHandler.Put)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv}
}

// Start runs the HTTP server.
func (s *Server) Start() {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
