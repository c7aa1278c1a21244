package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/page/outbound/api"
	"github.com/shandysiswandi/securelogin/internal/page/usecase"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/goroutine"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"go.uber.org/atomic"
)

type Dependency struct {
	HTTPClient *http.Client               `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Hasher     *hash.Argon2               `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`

	// FetchOutput receives the greeting; HashOutput receives the hash demo.
	FetchOutput entity.Element `validate:"required"`
	HashOutput  entity.Element `validate:"required"`
}

type endpointConfig struct {
	BaseURL  string `validate:"required,http_url"`
	Endpoint string `validate:"required,urlpath"`
}

// Page runs the behaviors of one page load. It is single-use.
type Page struct {
	uc        *usecase.Usecase
	goroutine *goroutine.Manager
	state     *atomic.Int32

	fetchOutput entity.Element
	hashOutput  entity.Element
}

func New(dep Dependency) (*Page, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	ec := endpointConfig{
		BaseURL:  dep.Config.GetString("page.base_url"),
		Endpoint: dep.Config.GetString("page.endpoint"),
	}
	if err := dep.Validator.Validate(ec); err != nil {
		return nil, fmt.Errorf("page endpoint: %w", err)
	}

	uc := usecase.New(usecase.Dependency{
		RepoAPI:    api.NewAPI(dep.HTTPClient, ec.BaseURL, ec.Endpoint, dep.Instrument),
		Hasher:     dep.Hasher,
		Validator:  dep.Validator,
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	return &Page{
		uc:          uc,
		goroutine:   dep.Goroutine,
		state:       atomic.NewInt32(int32(entity.StateIdle)),
		fetchOutput: dep.FetchOutput,
		hashOutput:  dep.HashOutput,
	}, nil
}

// Bind finds the output element of a page document.
func Bind(doc *entity.Document, selector string) (entity.Element, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: no document", entity.ErrElementNotFound)
	}
	return doc.QuerySelector(selector)
}

// Load starts both behaviors at once and waits for both to settle. Errors
// from either are joined; a second call returns entity.ErrAlreadyLoaded.
func (p *Page) Load(ctx context.Context) error {
	if !p.state.CompareAndSwap(int32(entity.StateIdle), int32(entity.StatePending)) {
		return entity.ErrAlreadyLoaded
	}
	defer p.state.Store(int32(entity.StateSettled))

	slog.DebugContext(ctx, "page load started")

	var startErrs []error

	// The manager skips tasks whose context is already done; the behaviors
	// still run so a canceled load settles through their failure paths.
	scheduleCtx := context.WithoutCancel(ctx)

	if err := p.goroutine.Go(scheduleCtx, func(context.Context) error {
		return p.uc.FetchAndDisplay(ctx, p.fetchOutput)
	}); err != nil {
		slog.ErrorContext(ctx, "failed to start fetch and display", "error", err)
		startErrs = append(startErrs, err)
	}

	if err := p.goroutine.Go(scheduleCtx, func(context.Context) error {
		return p.uc.HashAndVerify(ctx, p.hashOutput)
	}); err != nil {
		slog.ErrorContext(ctx, "failed to start hash and verify", "error", err)
		startErrs = append(startErrs, err)
	}

	err := errors.Join(append(startErrs, p.goroutine.Wait())...)

	slog.DebugContext(ctx, "page load settled", "failed", err != nil)

	return err
}

// State reports where the page is in its lifecycle.
func (p *Page) State() entity.State {
	return entity.State(p.state.Load())
}
