package api

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// API reads the greeting endpoint of a running server.
type API struct {
	client *http.Client
	url    string
	ins    instrument.Instrumentation
}

func NewAPI(client *http.Client, baseURL, endpoint string, ins instrument.Instrumentation) *API {
	return &API{
		client: client,
		url:    strings.TrimRight(baseURL, "/") + endpoint,
		ins:    ins,
	}
}

// Fetch issues one GET and returns the body of a 2xx response. It does not retry.
func (a *API) Fetch(ctx context.Context) (body string, err error) {
	ctx, span := a.startSpan(ctx, "Fetch")
	defer func() { a.endSpan(span, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("%w: build request: %w", entity.ErrTransport, err)
	}
	if cID := instrument.GetCorrelationID(ctx); cID != "" {
		req.Header.Set("X-Correlation-ID", cID)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", entity.ErrTransport, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.WarnContext(ctx, "failed to close response body", "url", a.url, "error", cerr)
		}
	}()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("%w: status %d", entity.ErrNetwork, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %w", entity.ErrTransport, err)
	}

	return string(data), nil
}

func (a *API) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return a.ins.Tracer("page.outbound.api").Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("url.full", a.url)),
	)
}

func (a *API) endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
