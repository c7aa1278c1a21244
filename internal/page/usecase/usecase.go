package usecase

import (
	"context"

	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

type repoAPI interface {
	Fetch(ctx context.Context) (string, error)
}

type passwordHasher interface {
	HashWithSalt(str string, salt []byte) (*hash.Digest, error)
	HashRandomSalt(str string) (*hash.Digest, error)
	Compare(hashed, str string) error
}

// output is the write side of a page element.
type output interface {
	SetText(text string)
	AppendText(text string)
}

type Usecase struct {
	repoAPI   repoAPI
	hasher    passwordHasher
	validator validator.Validator
	cfg       config.Config
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoAPI    repoAPI
	Hasher     passwordHasher
	Validator  validator.Validator
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoAPI:   dep.RepoAPI,
		hasher:    dep.Hasher,
		validator: dep.Validator,
		cfg:       dep.Config,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("page.usecase").Start(ctx, name)
}
