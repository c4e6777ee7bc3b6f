// ABOUTME: Error handling utilities for web and API handlers
// ABOUTME: Maps download error kinds to HTTP statuses, log levels and user-facing text

package handlers

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"tiktok-downloader/core/download"
	"tiktok-downloader/core/errors"
)

// Error kinds used in log fields
const (
	kindInput       = "input"
	kindExtraction  = "extraction"
	kindMissingFile = "missing_file"
	kindInternal    = "internal"
)

// errorKind classifies err into one of the four failure classes
func errorKind(err error) string {
	switch {
	case errors.IsValidation(err):
		return kindInput
	case errors.IsExtraction(err):
		return kindExtraction
	case errors.IsMissingFile(err):
		return kindMissingFile
	default:
		return kindInternal
	}
}

// statusFor returns the HTTP status matching err's kind
func statusFor(err error) int {
	switch errorKind(err) {
	case kindInput:
		return http.StatusBadRequest
	case kindExtraction:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// flashText returns the message shown to the user after a failed download
func flashText(err error, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if text := download.UserMessage(err); text != "" {
		return text
	}
	return download.MessageUnexpected
}

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	switch statusFor(err) {
	case http.StatusBadRequest:
		return huma.Error400BadRequest(download.UserMessage(err))
	case http.StatusBadGateway:
		return huma.Error502BadGateway(download.UserMessage(err), err)
	default:
		if errors.IsMissingFile(err) {
			return huma.Error500InternalServerError(download.UserMessage(err), err)
		}
		return huma.Error500InternalServerError("Internal server error", err)
	}
}
