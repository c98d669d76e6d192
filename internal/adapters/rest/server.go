package rest

import (
	"context"
	"fmt"
	"net/http"
	core_port "showcase-service/internal/core/port"
	"showcase-service/internal/core/port/usecases_port"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

func NewServer(cfg ServerConfig,
	public *PublicHandler,
	admin *AdminHandler,
	validateSession usecases_port.ValidateSessionUseCasePort,
	baseLogger core_port.LoggerPort) *Server {

	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           NewRouter(cfg, public, admin, validateSession, baseLogger),
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: baseLogger,
	}
}

// NewRouter собирает маршруты API; вынесен отдельно для тестов
func NewRouter(cfg ServerConfig,
	public *PublicHandler,
	admin *AdminHandler,
	validateSession usecases_port.ValidateSessionUseCasePort,
	baseLogger core_port.LoggerPort) http.Handler {

	r := chi.NewRouter()
	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-Match", "X-Trace-ID"},
		ExposedHeaders:   []string{"ETag", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/homepage/properties", public.GetHomepageProperties)
		r.Get("/properties", public.FindProperties)
		// до {propertyID}, чтобы "nearby" не считался идентификатором
		r.Get("/properties/nearby", public.FindNearby)
		r.Get("/properties/{propertyID}", public.GetPropertyDetails)
		r.Post("/chat/messages", public.SendChatMessage)
		r.Get("/chat/messages", public.GetChatHistory)
		r.Post("/auth/login", public.Login)

		r.Route("/admin", func(r chi.Router) {
			r.Use(SessionMiddleware(validateSession), RequireAdmin)

			r.Get("/dashboard", admin.GetDashboard)
			r.Get("/homepage-settings", admin.GetHomepageSettings)
			r.Put("/homepage-settings", admin.SaveHomepageSettings)
			r.Post("/homepage-settings/preview", admin.PreviewHomepage)

			r.Post("/drafts", admin.CreateDraft)
			r.Get("/drafts/{draftID}", admin.GetDraft)
			r.Put("/drafts/{draftID}/steps/{step}", admin.SaveDraftStep)
			r.Post("/drafts/{draftID}/publish", admin.PublishDraft)

			r.Post("/properties/{propertyID}/edit", admin.StartEditSession)
			r.Put("/properties/{propertyID}/status", admin.UpdatePropertyStatus)

			r.Get("/geocode/search", admin.GeocodeSearch)
			r.Get("/geocode/reverse", admin.ReverseGeocode)
		})
	})

	return r
}

// Start запускает HTTP-сервер и блокируется до Stop
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

// Stop корректно останавливает сервер
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
