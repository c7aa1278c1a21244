package router

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
)

func middlewareMaintenance(cfg config.Config) Middleware {
	var endpoints map[string]struct{}
	if cfg != nil {
		endpoints = lo.SliceToMap(cfg.GetArray("app.maintenance.endpoints"), func(endpoint string) (string, struct{}) {
			return endpoint, struct{}{}
		})
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, blocked := endpoints[matchedRoutePath(r)]; blocked {
				writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
