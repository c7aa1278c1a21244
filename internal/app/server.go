package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// Start launches the HTTP server. The returned channel yields nil on a
// termination signal, or the error that stopped the server.
func (a *App) Start() <-chan error {
	done := make(chan error, 2)

	go func() {
		scheme := "http"
		if a.tlsEnabled() {
			scheme = "https"
		}
		slog.Info("http server listening", "url", scheme+"://"+a.httpServer.Addr)

		var err error
		if a.tlsEnabled() {
			err = a.httpServer.ListenAndServeTLS(a.tlsCert, a.tlsKey)
		} else {
			err = a.httpServer.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			done <- fmt.Errorf("http server startup: %w", err)
		}
	}()

	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigint)

		select {
		case sig := <-sigint:
			slog.Debug("received stop signal", "signal", sig.String())
		case <-a.ctx.Done():
		}

		done <- nil
	}()

	return done
}

// Serve runs the HTTP server on the provided listener for tests.
func (a *App) Serve(l net.Listener) <-chan error {
	errChan := make(chan error, 1)

	go func() {
		if a.tlsEnabled() {
			errChan <- a.httpServer.ServeTLS(l, a.tlsCert, a.tlsKey)
		} else {
			errChan <- a.httpServer.Serve(l)
		}
		close(errChan)
	}()

	return errChan
}

// Handler exposes the full HTTP handler chain.
func (a *App) Handler() http.Handler {
	if a.httpServer == nil {
		return nil
	}
	return a.httpServer.Handler
}

// Stop gracefully shuts down the server and closes resources.
func (a *App) Stop(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Shutdown(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", "HTTP Server", "error", err)
		}
	}

	slog.DebugContext(ctx, "waiting for all goroutine to finish")
	if err := a.goroutine.Wait(); err != nil {
		slog.ErrorContext(ctx, "error from goroutines executions", "error", err)
	}

	for _, closer := range a.closers {
		if err := closer.fn(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", closer.name, "error", err)
		}
	}

	slog.InfoContext(ctx, "application gracefully shutdown")
}

func (a *App) tlsEnabled() bool {
	return a.tlsCert != "" && a.tlsKey != ""
}
