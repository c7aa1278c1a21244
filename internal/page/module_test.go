package page

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/goroutine"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	fetchOut *entity.TextElement
	hashOut  *entity.TextElement
	argon    *hash.Argon2
}

func newPage(t *testing.T, baseURL string, overrides map[string]any) (*Page, fixture) {
	t.Helper()

	defaults := map[string]any{
		"page.base_url":      baseURL,
		"page.endpoint":      "/api",
		"page.demo.password": "password",
		"page.demo.salt":     "passhash",
	}
	for k, v := range overrides {
		defaults[k] = v
	}

	cfg, err := config.NewViperFromBytes("yaml", nil, defaults)
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	argon, err := hash.NewArgon2(hash.Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 16})
	require.NoError(t, err)

	fx := fixture{fetchOut: entity.NewTextElement(), hashOut: entity.NewTextElement(), argon: argon}

	p, err := New(Dependency{
		HTTPClient:  &http.Client{Timeout: 5 * time.Second},
		Goroutine:   goroutine.NewManager(2),
		Hasher:      argon,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
		Clock:       clock.New(),
		Validator:   v,
		FetchOutput: fx.fetchOut,
		HashOutput:  fx.hashOut,
	})
	require.NoError(t, err)

	return p, fx
}

func expectedHashText(t *testing.T, argon *hash.Argon2) string {
	t.Helper()

	d, err := argon.HashWithSalt("password", []byte("passhash"))
	require.NoError(t, err)
	return entity.HashText(d.Encoded, d.Hex)
}

func closedAddr(t *testing.T) string {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestPage_Load(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p, fx := newPage(t, srv.URL, nil)
	assert.Equal(t, entity.StateIdle, p.State())

	require.NoError(t, p.Load(context.Background()))

	assert.Equal(t, entity.StateSettled, p.State())
	assert.Equal(t, "hello", fx.fetchOut.Text())
	assert.Equal(t, expectedHashText(t, fx.argon)+"Verified OK", fx.hashOut.Text())

	assert.ErrorIs(t, p.Load(context.Background()), entity.ErrAlreadyLoaded)
	assert.Equal(t, "hello", fx.fetchOut.Text())
}

func TestPage_LoadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p, fx := newPage(t, srv.URL, nil)

	err := p.Load(context.Background())
	require.ErrorIs(t, err, entity.ErrNetwork)
	assert.NotErrorIs(t, err, entity.ErrHash)

	assert.Equal(t, "Error fetching data", fx.fetchOut.Text())
	assert.True(t, strings.HasSuffix(fx.hashOut.Text(), "Verified OK"))
}

func TestPage_LoadConnectionRefused(t *testing.T) {
	p, fx := newPage(t, "http://"+closedAddr(t), nil)

	err := p.Load(context.Background())
	require.ErrorIs(t, err, entity.ErrTransport)
	assert.Equal(t, "Error fetching data", fx.fetchOut.Text())
}

func TestPage_LoadBothFail(t *testing.T) {
	p, fx := newPage(t, "http://"+closedAddr(t), map[string]any{"page.demo.salt": "tiny"})

	err := p.Load(context.Background())
	assert.ErrorIs(t, err, entity.ErrTransport)
	assert.ErrorIs(t, err, entity.ErrHash)

	assert.Equal(t, "Error fetching data", fx.fetchOut.Text())
	assert.Empty(t, fx.hashOut.Text())
	assert.Equal(t, entity.StateSettled, p.State())
}

func TestPage_LoadRunsBehaviorsConcurrently(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		_, _ = w.Write([]byte("late hello"))
	}))
	defer srv.Close()
	defer func() {
		select {
		case <-release:
		default:
			close(release)
		}
	}()

	p, fx := newPage(t, srv.URL, nil)

	done := make(chan error, 1)
	go func() { done <- p.Load(context.Background()) }()

	// The hash demo finishes while the fetch is still blocked on the server.
	assert.Eventually(t, func() bool {
		return strings.HasSuffix(fx.hashOut.Text(), "Verified OK")
	}, 5*time.Second, 10*time.Millisecond)
	assert.Empty(t, fx.fetchOut.Text())
	assert.Equal(t, entity.StatePending, p.State())

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "late hello", fx.fetchOut.Text())
}

func TestPage_LoadCanceledContext(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	p, fx := newPage(t, srv.URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Load(ctx)
	require.ErrorIs(t, err, entity.ErrTransport)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, entity.ErrHash)
	assert.NotErrorIs(t, err, entity.ErrVerify)

	assert.Equal(t, entity.StateSettled, p.State())
	assert.Equal(t, entity.FetchErrorText, fx.fetchOut.Text())
	assert.Equal(t, expectedHashText(t, fx.argon)+entity.VerifiedText, fx.hashOut.Text())
	assert.Zero(t, hits.Load())
}

func TestNew_InvalidEndpoint(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", nil, map[string]any{
		"page.base_url": "not a url",
		"page.endpoint": "api",
	})
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	argon, err := hash.NewArgon2(hash.Argon2Config{})
	require.NoError(t, err)

	_, err = New(Dependency{
		HTTPClient:  http.DefaultClient,
		Goroutine:   goroutine.NewManager(2),
		Hasher:      argon,
		Config:      cfg,
		Instrument:  instrument.NewNoop(),
		Clock:       clock.New(),
		Validator:   v,
		FetchOutput: entity.NewTextElement(),
		HashOutput:  entity.NewTextElement(),
	})

	var verr validator.V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Values(), "base_url")
	assert.Contains(t, verr.Values(), "endpoint")
}

func TestNew_MissingOutput(t *testing.T) {
	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	_, err = New(Dependency{Validator: v})
	assert.Error(t, err)
}

func TestBind(t *testing.T) {
	doc, err := entity.ParseDocument(strings.NewReader(`<html><body><pre><code></code></pre></body></html>`))
	require.NoError(t, err)

	el, err := Bind(doc, "code")
	require.NoError(t, err)
	el.SetText("x")
	assert.Equal(t, "x", el.Text())

	bare, err := entity.ParseDocument(strings.NewReader(`<html><body><p>no output</p></body></html>`))
	require.NoError(t, err)

	_, err = Bind(bare, "code")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)

	_, err = Bind(nil, "code")
	assert.ErrorIs(t, err, entity.ErrElementNotFound)
}
