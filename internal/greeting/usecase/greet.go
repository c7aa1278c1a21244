package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/securelogin/internal/pkg/goerror"
)

type GreetInput struct {
	Host string
}

type GreetOutput struct {
	Text string
}

// Greet answers "Hello {host} from {bind}\n", where bind is the listen
// address exactly as the operator gave it.
func (s *Usecase) Greet(ctx context.Context, in GreetInput) (*GreetOutput, error) {
	ctx, span := s.startSpan(ctx, "Greet")
	defer span.End()

	host := strings.TrimSpace(in.Host)
	if host == "" || strings.ContainsAny(host, "\r\n") {
		slog.WarnContext(ctx, "greeting request without a usable host header", "host", in.Host)
		return nil, goerror.NewInvalidFormat("host header is required")
	}

	bind := s.cfg.GetString("app.server.http.address")

	slog.DebugContext(ctx, "handled greeting request", "host", host, "bind", bind)

	return &GreetOutput{Text: fmt.Sprintf("Hello %s from %s\n", host, bind)}, nil
}
