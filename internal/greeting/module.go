package greeting

import (
	"github.com/shandysiswandi/securelogin/internal/greeting/inbound"
	"github.com/shandysiswandi/securelogin/internal/greeting/usecase"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/router"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
