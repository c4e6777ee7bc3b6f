// ABOUTME: Validation handler reporting whether a submitted URL is a TikTok video link
// ABOUTME: Backs the form's live validation without touching the network

package handlers

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"tiktok-downloader/core/validate"
)

// URLChecker checks user input against the accepted video URL shapes
type URLChecker interface {
	Check(raw interface{}) (validate.Result, error)
}

// ValidateHandler handles URL validation
type ValidateHandler struct {
	checker URLChecker
}

// NewValidateHandler creates a new validation handler
func NewValidateHandler(checker URLChecker) *ValidateHandler {
	return &ValidateHandler{
		checker: checker,
	}
}

// RegisterRoutes registers validation routes
func (h *ValidateHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "validateURL",
		Method:      http.MethodPost,
		Path:        "/validate",
		Summary:     "Validate a TikTok URL",
		Description: "Checks whether the URL has the shape of a TikTok video link. No network request is made.",
		Tags:        []string{"Validation"},
	}, h.ValidateURL)
}

// ValidateInput defines the input for URL validation
type ValidateInput struct {
	Body struct {
		URL interface{} `json:"url,omitempty" required:"false" doc:"URL to validate; non-string values are reported as invalid"`
	}
}

// ValidateOutput defines the output for URL validation
type ValidateOutput struct {
	Body struct {
		Valid   bool   `json:"valid" doc:"Whether the URL is an accepted TikTok video link"`
		Message string `json:"message" doc:"Human readable verdict"`
	}
}

// ValidateURL handles the POST /validate endpoint
func (h *ValidateHandler) ValidateURL(ctx context.Context, input *ValidateInput) (*ValidateOutput, error) {
	result, err := h.checker.Check(input.Body.URL)
	if err != nil {
		return nil, toHumaError(err)
	}

	output := &ValidateOutput{}
	output.Body.Valid = result.Valid
	output.Body.Message = result.Message
	return output, nil
}
