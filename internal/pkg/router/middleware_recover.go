package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/finlens/loanadvisor/internal/pkg/stacktrace"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // http.ErrAbortHandler must be compared directly
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			paths := stacktrace.InternalPaths(debug.Stack())
			if len(paths) == 0 {
				slog.ErrorContext(r.Context(), "panic while serving request", "because", rvr, "stack", string(debug.Stack()))
			} else {
				slog.ErrorContext(r.Context(), "panic while serving request", "because", rvr, "stack", paths)
			}

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
