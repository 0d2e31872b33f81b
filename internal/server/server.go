package server

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/arvin-shafiei/rental-app-sub001/internal/cache"
	"github.com/arvin-shafiei/rental-app-sub001/internal/config"
	"github.com/arvin-shafiei/rental-app-sub001/internal/handlers"
	"github.com/arvin-shafiei/rental-app-sub001/internal/middleware"
	"github.com/arvin-shafiei/rental-app-sub001/internal/repository"
	"github.com/arvin-shafiei/rental-app-sub001/internal/services"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	router *chi.Mux
	config config.Config
}

func New(database *sql.DB, redisClient *redis.Client, cfg config.Config, authService *services.AuthService) *Server {
	userRepo := repository.NewUserRepository(database)
	propertyRepo := repository.NewPropertyRepository(database)
	eventRepo := repository.NewEventRepository(database)
	agreementRepo := repository.NewAgreementRepository(database)
	tokenRepo := repository.NewAPITokenRepository(database)
	usageRepo := repository.NewUsageRepository(database)

	taskService := services.NewTaskService(agreementRepo, eventRepo, propertyRepo)
	limitService := services.NewLimitService(usageRepo, cfg.PropertyLimit, cfg.EventLimit)
	summaryCache := cache.New(redisClient)

	authHandler := handlers.NewAuthHandler(authService)
	propertyHandler := handlers.NewPropertyHandler(propertyRepo, limitService, summaryCache)
	timelineHandler := handlers.NewTimelineHandler(eventRepo, propertyRepo, taskService, limitService, summaryCache)
	agreementHandler := handlers.NewAgreementHandler(agreementRepo, propertyRepo, taskService)
	dashboardHandler := handlers.NewDashboardHandler(eventRepo, propertyRepo, limitService, summaryCache)
	icalHandler := handlers.NewICalHandler(eventRepo, propertyRepo, tokenRepo)
	tokenHandler := handlers.NewTokenHandler(tokenRepo)

	router := chi.NewRouter()

	router.Use(chimiddleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(chimiddleware.Compress(5))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Get("/auth/login", authHandler.Login)
	router.Get("/auth/callback", authHandler.Callback)
	router.Get("/auth/logout", authHandler.Logout)

	router.Get("/ical", icalHandler.Feed)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(authService, tokenRepo, userRepo))

		r.Get("/api/properties", propertyHandler.List)
		r.Post("/api/properties", propertyHandler.Create)
		r.Get("/api/properties/{id}", propertyHandler.Get)
		r.Put("/api/properties/{id}", propertyHandler.Update)
		r.Delete("/api/properties/{id}", propertyHandler.Delete)
		r.Get("/api/properties/{id}/agreements", agreementHandler.ListByProperty)

		r.Get("/api/timeline/properties/{propertyID}/events", timelineHandler.ListPropertyEvents)
		r.Get("/api/timeline/upcoming", timelineHandler.Upcoming)
		r.Get("/api/timeline/events", timelineHandler.List)
		r.Post("/api/timeline/events", timelineHandler.Create)
		r.Put("/api/timeline/events/{id}", timelineHandler.Update)
		r.Post("/api/timeline/events/{id}/complete", timelineHandler.ToggleComplete)
		r.Delete("/api/timeline/events/{id}", timelineHandler.Delete)

		r.Post("/api/agreements", agreementHandler.Create)
		r.Get("/api/agreements/{id}", agreementHandler.Get)
		r.Delete("/api/agreements/{id}", agreementHandler.Delete)
		r.Post("/api/agreements/{id}/tasks", agreementHandler.TaskAction)

		r.Get("/api/dashboard", dashboardHandler.Summary)

		r.Post("/api/tokens", tokenHandler.Create)
		r.Delete("/api/tokens/{id}", tokenHandler.Delete)
	})

	return &Server{
		router: router,
		config: cfg,
	}
}

// Router exposes the handler tree for tests and embedding.
func (server *Server) Router() http.Handler {
	return server.router
}

func (server *Server) Start() error {
	address := ":" + server.config.Port
	slog.Info("starting server", "address", address)
	return http.ListenAndServe(address, server.router)
}
