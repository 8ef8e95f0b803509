package handlers

import (
	"fmt"
	"net/http"
	"runtime"

	"go.uber.org/zap"
)

// Recoverer turns a panicking handler into a logged 500.
func Recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := make([]byte, 8*1024)
					stack = stack[:runtime.Stack(stack, false)]
					logger.Error("panic recovered",
						zap.String("error", fmt.Sprint(rec)),
						zap.String("method", r.Method),
						zap.String("path", r.URL.Path),
						zap.ByteString("stack", stack),
					)
					writeJSON(w, http.StatusInternalServerError, ApiResponse{
						Success: false,
						Message: "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
