package usecase

import (
	"context"

	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	cfg config.Config
	ins instrument.Instrumentation
}

type Dependency struct {
	Config     config.Config
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		cfg: dep.Config,
		ins: dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("greeting.usecase").Start(ctx, name)
}
