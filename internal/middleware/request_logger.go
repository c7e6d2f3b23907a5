package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"pet-adoption/internal/platform/logger"
)

// RequestLogger mete en el contexto un logger con request_id (de chimw.RequestID)
// y loguea una línea por request al terminar.
func RequestLogger(base logger.Logger) func(http.Handler) http.Handler {
	if base == nil {
		base = logger.Nop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(map[string]any{"request_id": chimw.GetReqID(r.Context())})
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r.WithContext(logger.IntoContext(r.Context(), l)))

			fields := map[string]any{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      ww.Status(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if ww.Status() >= 500 {
				l.Error("request", fields)
				return
			}
			l.Info("request", fields)
		})
	}
}
