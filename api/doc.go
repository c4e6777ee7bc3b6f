// Package api provides the HTTP layer of the TikTok downloader.
// HTML pages and the file download are plain chi handlers; the JSON
// endpoints use Huma for OpenAPI documentation and request validation.
//
// # Architecture
//
// - server.go: Router, middleware stack and Huma configuration
// - routes.go: Wiring of handlers onto the router
// - handlers/: Web, validation and health handlers
// - web/: Embedded templates and flash messages
// - middleware/: Request logging and panic recovery
//
// # Routes
//
//	GET  /          download form
//	POST /download  download a video as an attachment, or redirect back with a flash
//	POST /validate  {"url": "..."} -> {"valid": bool, "message": "..."}
//	GET  /health    {"status": "healthy", "message": "... is running"}
//
// The OpenAPI spec for the JSON routes is served at /openapi.json and the
// interactive docs at /docs. Unknown paths re-render the form with a 404.
//
// # Error Handling
//
// JSON endpoints use the RFC 7807 error format Huma provides. The download
// form never shows raw errors; failures become flash messages.
package api
