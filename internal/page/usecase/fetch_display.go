package usecase

import (
	"context"
	"log/slog"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"go.opentelemetry.io/otel/codes"
)

// FetchAndDisplay renders the greeting endpoint's body into out. Any failure
// is logged and replaced by entity.FetchErrorText.
func (s *Usecase) FetchAndDisplay(ctx context.Context, out output) error {
	ctx, span := s.startSpan(ctx, "FetchAndDisplay")
	defer span.End()

	start := s.clock.Now()

	body, err := s.repoAPI.Fetch(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "there was a problem with the fetch operation",
			"latency_ms", clock.Since(s.clock, start).Milliseconds(),
			"error", err,
		)
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")

		out.SetText(entity.FetchErrorText)
		return err
	}

	out.SetText(body)

	slog.DebugContext(ctx, "fetched data displayed",
		"bytes", len(body),
		"latency_ms", clock.Since(s.clock, start).Milliseconds(),
	)

	return nil
}
