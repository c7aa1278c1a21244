package inbound

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/securelogin/internal/greeting/usecase"
	"github.com/shandysiswandi/securelogin/internal/pkg/goerror"
	"github.com/shandysiswandi/securelogin/internal/pkg/router"
)

type HTTPEndpoint struct {
	uc uc
}

// Greet writes the greeting as text/plain; the page client renders the body verbatim.
func (h *HTTPEndpoint) Greet() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &router.Request{Request: r}
		if rest := req.GetParam("rest"); rest != "" {
			slog.DebugContext(r.Context(), "greeting served for sub path", "rest", rest)
		}

		out, err := h.uc.Greet(r.Context(), usecase.GreetInput{Host: r.Host})
		if err != nil {
			status := http.StatusInternalServerError
			msg := "internal server error"

			var gerr *goerror.Error
			if errors.As(err, &gerr) {
				status = gerr.StatusCode()
				msg = gerr.Msg()
			}

			http.Error(w, msg, status)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err := io.WriteString(w, out.Text); err != nil {
			slog.ErrorContext(r.Context(), "failed to write greeting response", "error", err)
		}
	})
}
