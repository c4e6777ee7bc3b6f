// ABOUTME: Panic recovery middleware that logs the failure and renders an error response
// ABOUTME: Keeps a single broken request from taking down the server

package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"tiktok-downloader/core/interfaces"
)

// RecoverMiddleware turns panics into a response produced by onPanic.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func RecoverMiddleware(logger interfaces.Logger, onPanic http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				fields := RequestLogFields(r)
				fields["panic"] = fmt.Sprint(rec)
				fields["stack"] = string(debug.Stack())
				logger.Error("Recovered from panic", fields)

				onPanic(w, r)
			}()

			next.ServeHTTP(w, r)
		})
	}
}
