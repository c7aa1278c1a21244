package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/securelogin/internal/pkg/config"
)

// HeaderContentSecurityPolicy is set on every response unless disabled.
const HeaderContentSecurityPolicy = "Content-Security-Policy"

func middlewareSecurityHeaders(cfg config.Config) Middleware {
	policy := ""
	if cfg != nil && cfg.GetBool("app.server.csp.enabled") {
		policy = strings.TrimSpace(cfg.GetString("app.server.csp.value"))
	}

	return func(next http.Handler) http.Handler {
		if policy == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(HeaderContentSecurityPolicy, policy)
			next.ServeHTTP(w, r)
		})
	}
}
