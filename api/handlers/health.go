// ABOUTME: Health check handler for deployment probes
// ABOUTME: Reports liveness without touching the extractor or the filesystem

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// HealthHandler handles liveness checks
type HealthHandler struct {
	serviceName string
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(serviceName string) *HealthHandler {
	return &HealthHandler{serviceName: serviceName}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Tags:        []string{"Health"},
	}, h.Health)
}

// HealthOutput defines the health response
type HealthOutput struct {
	Body struct {
		Status  string `json:"status" example:"healthy" doc:"Always 'healthy' while the process serves requests"`
		Message string `json:"message" example:"TikTok Downloader is running"`
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(ctx context.Context, input *struct{}) (*HealthOutput, error) {
	output := &HealthOutput{}
	output.Body.Status = "healthy"
	output.Body.Message = h.serviceName + " is running"
	return output, nil
}
