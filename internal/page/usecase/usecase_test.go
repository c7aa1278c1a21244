package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/clock"
	"github.com/shandysiswandi/securelogin/internal/pkg/config"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/shandysiswandi/securelogin/internal/pkg/instrument"
	"github.com/shandysiswandi/securelogin/internal/pkg/validator"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	body string
	err  error
}

func (f *fakeAPI) Fetch(context.Context) (string, error) {
	return f.body, f.err
}

type fakeHasher struct {
	digest     *hash.Digest
	hashErr    error
	compareErr error

	gotPassword   string
	gotSalt       []byte
	gotRandomSalt bool

	// compareEntered and compareRelease let a test observe the element
	// while verification is still in flight.
	compareEntered chan struct{}
	compareRelease chan struct{}
}

func (f *fakeHasher) HashWithSalt(str string, salt []byte) (*hash.Digest, error) {
	f.gotPassword = str
	f.gotSalt = salt
	return f.digest, f.hashErr
}

func (f *fakeHasher) HashRandomSalt(str string) (*hash.Digest, error) {
	f.gotPassword = str
	f.gotRandomSalt = true
	return f.digest, f.hashErr
}

func (f *fakeHasher) Compare(string, string) error {
	if f.compareEntered != nil {
		close(f.compareEntered)
		<-f.compareRelease
	}
	return f.compareErr
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// captureLogs routes the default logger into a buffer for the rest of the test.
func captureLogs(t *testing.T) *lockedBuffer {
	t.Helper()

	buf := &lockedBuffer{}
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	return buf
}

func newTestUsecase(t *testing.T, api repoAPI, hasher passwordHasher, cfg map[string]any) *Usecase {
	t.Helper()

	defaults := map[string]any{
		"page.demo.password": "password",
		"page.demo.salt":     "passhash",
	}
	for k, v := range cfg {
		defaults[k] = v
	}

	c, err := config.NewViperFromBytes("yaml", nil, defaults)
	require.NoError(t, err)

	v, err := validator.NewV10Validator()
	require.NoError(t, err)

	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	return New(Dependency{
		RepoAPI:    api,
		Hasher:     hasher,
		Validator:  v,
		Config:     c,
		Clock:      clock.Func(func() time.Time { return fixed }),
		Instrument: instrument.NewNoop(),
	})
}

var errDial = fmt.Errorf("%w: dial tcp 127.0.0.1:1: connect: connection refused", entity.ErrTransport)

var errBoom = errors.New("boom")
