package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ksboot/app"
	"ksboot/internal"
)

// App represents the HTTP application
type App struct {
	router  *chi.Mux
	service *app.TestService
	logger  *internal.Logger
}

// NewApp creates a new HTTP application around a test service
func NewApp(service *app.TestService, logger *internal.Logger) *App {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	a := &App{
		router:  chi.NewRouter(),
		service: service,
		logger:  logger,
	}

	a.setupMiddleware()
	a.setupRoutes()

	return a
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/health", a.handleHealth)

	a.router.Post("/api/tests", a.handleRunTest)
	a.router.Get("/api/tests", a.handleListTests)
	a.router.Get("/api/tests/{id}", a.handleGetTest)
	a.router.Get("/api/tests/{id}/report", a.handleTestReport)
}

// Router returns the underlying chi router
func (a *App) Router() http.Handler {
	return a.router
}

// Start begins serving HTTP requests on the given port
func (a *App) Start(port string) error {
	a.logger.Info("starting server on port %s", port)
	return http.ListenAndServe(":"+port, a.router)
}
