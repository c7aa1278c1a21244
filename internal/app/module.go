package app

import (
	"fmt"

	"github.com/shandysiswandi/securelogin/internal/greeting"
	"github.com/shandysiswandi/securelogin/internal/pkg/fileserver"
)

func (a *App) initModules() error {
	if err := greeting.New(greeting.Dependency{
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		Validator:  a.validator,
	}); err != nil {
		return fmt.Errorf("init module greeting: %w", err)
	}

	static, err := fileserver.New(a.static)
	if err != nil {
		return fmt.Errorf("init static file server: %w", err)
	}
	a.router.Fallback(static)

	return nil
}
