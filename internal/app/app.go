package app

import (
	"context"
	"io"
	"io/fs"
	"net/http"

	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/goroutine"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/router"
	"github.com/shandysiswandi/securelogin/internal/pkg/uid"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"github.com/spf13/pflag"
)

// Version is overridden at link time with -ldflags "-X ...app.Version=x.y.z".
var Version = "0.1.0"

// Options selects the configuration sources of an App.
type Options struct {
	// ConfigPath is a config file; empty falls back to $CONFIG_PATH, then to built-in defaults.
	ConfigPath string
	// Flags binds command line flags onto config keys.
	Flags map[string]*pflag.Flag
	// Overrides are set on top of every other source.
	Overrides map[string]any
	// LogOutput receives JSON logs; nil means stdout.
	LogOutput io.Writer
}

// App wires dependencies and manages service lifecycle.
type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config config.Config
	ins    instrument.Instrumentation

	// libraries
	goroutine *goroutine.Manager
	validator validator.Validator
	clock     clock.Clocker
	uuid      uid.StringID
	argon2    *hash.Argon2

	// resources
	static fs.FS

	// server
	router     *router.Router
	httpServer *http.Server
	tlsCert    string
	tlsKey     string

	//
	closers []struct {
		name string
		fn   func(context.Context) error
	}
}

// New loads configuration, installs logging and instrumentation, and builds
// the shared libraries. Servers and modules are added by InitServer.
func New(opts Options) (*App, error) {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	for _, step := range []func(Options) error{
		app.initConfig,
		app.initInstrument,
		app.initLibraries,
		app.initStatic,
	} {
		if err := step(opts); err != nil {
			cancel()
			return nil, err
		}
	}

	app.initClosers()

	return app, nil
}

// InitServer builds the HTTP server and registers the modules on it.
func (a *App) InitServer() error {
	if err := a.initHTTPServer(); err != nil {
		return err
	}

	return a.initModules()
}
