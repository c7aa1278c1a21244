package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/rs/cors"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/goroutine"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/router"
	"github.com/shandysiswandi/securelogin/internal/pkg/uid"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"github.com/shandysiswandi/securelogin/web"
)

var (
	// ErrTLSCertMissing is returned when only a TLS key is configured.
	ErrTLSCertMissing = errors.New("TLS key provided but no TLS certificate provided")
	// ErrTLSKeyMissing is returned when only a TLS certificate is configured.
	ErrTLSKeyMissing = errors.New("TLS certificate provided but no TLS key provided")
)

func (a *App) initConfig(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}

	cfg, err := config.NewViper(path, Defaults())
	if err != nil {
		return fmt.Errorf("init config: %w", err)
	}

	for key, flag := range opts.Flags {
		if err := cfg.BindFlag(key, flag); err != nil {
			return fmt.Errorf("init config: %w", err)
		}
	}
	for key, value := range opts.Overrides {
		cfg.Set(key, value)
	}

	a.config = cfg

	return nil
}

func (a *App) initInstrument(opts Options) error {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   Version,
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
		Debug:            a.config.GetBool("app.debug"),
		LogOutput:        opts.LogOutput,
	})
	if err != nil {
		return fmt.Errorf("init instrumentation: %w", err)
	}

	a.ins = ins

	slog.Debug("secure login demo configured", "version", Version)

	return nil
}

func (a *App) initLibraries(Options) error {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	argon, err := hash.NewArgon2(hash.Argon2Config{
		Variant:     hash.Variant(a.config.GetString("hash.argon2.variant")),
		Memory:      a.config.GetUint32("hash.argon2.memory"),
		Iterations:  a.config.GetUint32("hash.argon2.iterations"),
		Parallelism: a.config.GetUint8("hash.argon2.parallelism"),
		SaltLength:  a.config.GetUint32("hash.argon2.salt_length"),
		KeyLength:   a.config.GetUint32("hash.argon2.key_length"),
		Pepper:      a.config.GetString("hash.argon2.pepper"),
	})
	if err != nil {
		return fmt.Errorf("init argon2: %w", err)
	}
	a.argon2 = argon

	v, err := validator.NewV10Validator()
	if err != nil {
		return fmt.Errorf("init validation v10 validator: %w", err)
	}
	a.validator = v

	return nil
}

func (a *App) initStatic(Options) error {
	dir := strings.TrimSpace(a.config.GetString("app.static.dir"))
	if dir == "" {
		a.static = web.Public()
		return nil
	}

	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("init static dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("init static dir: %s is not a directory", dir)
	}

	a.static = os.DirFS(dir)
	slog.Info("serving static files from disk", "dir", dir)

	return nil
}

func (a *App) initHTTPServer() error {
	a.tlsCert = strings.TrimSpace(a.config.GetString("app.server.tls.cert_file"))
	a.tlsKey = strings.TrimSpace(a.config.GetString("app.server.tls.key_file"))
	switch {
	case a.tlsCert == "" && a.tlsKey != "":
		return ErrTLSCertMissing
	case a.tlsCert != "" && a.tlsKey == "":
		return ErrTLSKeyMissing
	}

	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		Instrument: a.ins,
	})

	var handler http.Handler = a.router
	if origins := a.config.GetArray("app.server.cors"); len(origins) > 0 {
		handler = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{
				http.MethodGet,
				http.MethodHead,
				http.MethodOptions,
			},
			AllowedHeaders: []string{router.HeaderCorrelationID, router.HeaderRequestID},
			ExposedHeaders: []string{router.HeaderCorrelationID},
		}).Handler(a.router)
	}

	a.httpServer = &http.Server{
		Addr:              ParseBind(a.config.GetString("app.server.http.address")),
		Handler:           handler,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}

	return nil
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
	}
}
