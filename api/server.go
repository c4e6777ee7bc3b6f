// ABOUTME: Router and Huma API setup shared by the web pages and the JSON endpoints
// ABOUTME: Installs the middleware stack and serves OpenAPI documentation for the JSON routes

package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"tiktok-downloader/api/middleware"
	"tiktok-downloader/core/interfaces"
)

// DefaultTitle is the API title when none is configured
const DefaultTitle = "TikTok Downloader"

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// Title names the service in the OpenAPI document
	Title string

	// AllowedOrigins for CORS; empty allows any origin
	AllowedOrigins []string

	// OnPanic renders the response after a recovered panic
	OnPanic http.HandlerFunc
}

// NewAPI creates and configures a new Huma API instance without logging
func NewAPI() (huma.API, chi.Router) {
	return NewAPIWithMiddleware(APIConfig{})
}

// NewAPIWithMiddleware creates a new API with middleware configured
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// Behind a proxy the client address comes from X-Forwarded-For / X-Real-IP
	router.Use(chimiddleware.RealIP)

	// Uptime checkers probe with HEAD; answer it from the GET routes
	router.Use(chimiddleware.GetHead)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger, "/health"))

		onPanic := cfg.OnPanic
		if onPanic == nil {
			onPanic = func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			}
		}
		router.Use(middleware.RecoverMiddleware(cfg.Logger, onPanic))
	} else {
		router.Use(chimiddleware.Recoverer)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:         300,
	}))

	// Video files are already compressed; only text responses are worth it
	router.Use(chimiddleware.Compress(5, "text/html", "application/json", "application/problem+json"))

	title := cfg.Title
	if title == "" {
		title = DefaultTitle
	}
	config := huma.DefaultConfig(title, "1.0.0")
	config.Info.Description = "Download TikTok videos as files. The JSON endpoints back the web form."

	api := humachi.New(router, config)

	// The OpenAPI spec is automatically available at /openapi.json
	// The docs UI is automatically available at /docs

	return api, router
}
