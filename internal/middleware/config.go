package middleware

import (
	"net/http"

	"github.com/templui/corpsite/internal/config"
	"github.com/templui/corpsite/internal/ctxkeys"
)

// Config middleware adds the sanitized app configuration to the request context.
// Secrets like TokenSecret and S3 credentials are excluded.
func Config(cfg *config.Config) func(http.Handler) http.Handler {
	sanitized := cfg.Sanitized()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := ctxkeys.WithConfig(r.Context(), sanitized)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
