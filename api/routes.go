// ABOUTME: Route wiring for the web form, the download endpoint and the JSON endpoints
// ABOUTME: Builds the complete HTTP handler from core services

package api

import (
	"github.com/go-chi/chi/v5"

	"tiktok-downloader/api/handlers"
	"tiktok-downloader/api/web"
	"tiktok-downloader/core/interfaces"
)

// RouterConfig holds everything the HTTP layer needs
type RouterConfig struct {
	Logger     interfaces.Logger
	Cache      interfaces.Cache
	Downloader handlers.Downloader
	Checker    handlers.URLChecker

	// ServiceName titles the page, the health message and the OpenAPI document
	ServiceName string

	// SessionSecret signs flash cookies
	SessionSecret string

	// SecureCookies marks flash cookies Secure
	SecureCookies bool
}

// NewRouter builds the application router
func NewRouter(cfg RouterConfig) (chi.Router, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = DefaultTitle
	}

	renderer, err := web.NewRenderer(cfg.ServiceName)
	if err != nil {
		return nil, err
	}
	flashes := web.NewFlashStore(cfg.Cache, cfg.SessionSecret, web.WithSecureCookie(cfg.SecureCookies))
	webHandler := handlers.NewWebHandler(cfg.Downloader, renderer, flashes, cfg.Logger)

	humaAPI, router := NewAPIWithMiddleware(APIConfig{
		Logger:  cfg.Logger,
		Title:   cfg.ServiceName,
		OnPanic: webHandler.InternalError,
	})

	handlers.NewHealthHandler(cfg.ServiceName).RegisterRoutes(humaAPI)
	handlers.NewValidateHandler(cfg.Checker).RegisterRoutes(humaAPI)
	webHandler.RegisterRoutes(router)

	return router, nil
}
