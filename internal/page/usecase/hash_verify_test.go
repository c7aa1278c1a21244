package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/shandysiswandi/securelogin/internal/page/entity"
	"github.com/shandysiswandi/securelogin/internal/pkg/hash"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsecase_HashAndVerify(t *testing.T) {
	digest := &hash.Digest{Encoded: "E", Hex: "H"}

	tests := []struct {
		name     string
		hasher   *fakeHasher
		cfg      map[string]any
		wantText string
		wantErr  error
		wantLog  string
	}{
		{
			name:     "hash then verified",
			hasher:   &fakeHasher{digest: digest},
			wantText: "Encoded: E\nHex: H\nVerified OK",
		},
		{
			name:     "verify failure keeps hash text",
			hasher:   &fakeHasher{digest: digest, compareErr: hash.ErrMismatch},
			wantText: "Encoded: E\nHex: H\n",
			wantErr:  entity.ErrVerify,
			wantLog:  "failed to verify password",
		},
		{
			name:     "hash failure leaves element untouched",
			hasher:   &fakeHasher{hashErr: errBoom},
			wantText: "untouched",
			wantErr:  entity.ErrHash,
			wantLog:  "failed to hash password",
		},
		{
			name:     "short salt rejected before hashing",
			hasher:   &fakeHasher{digest: digest},
			cfg:      map[string]any{"page.demo.salt": "short"},
			wantText: "untouched",
			wantErr:  entity.ErrHash,
			wantLog:  "invalid hash demo input",
		},
		{
			name:     "empty password rejected",
			hasher:   &fakeHasher{digest: digest},
			cfg:      map[string]any{"page.demo.password": ""},
			wantText: "untouched",
			wantErr:  entity.ErrHash,
			wantLog:  "invalid hash demo input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logs := captureLogs(t)
			out := entity.NewTextElement()
			out.SetText("untouched")

			err := newTestUsecase(t, &fakeAPI{}, tt.hasher, tt.cfg).HashAndVerify(context.Background(), out)

			assert.Equal(t, tt.wantText, out.Text())
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.NotContains(t, logs.String(), `"level":"ERROR"`)
				return
			}

			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, logs.String(), tt.wantLog)
		})
	}
}

func TestUsecase_HashAndVerify_DemoInputs(t *testing.T) {
	h := &fakeHasher{digest: &hash.Digest{Encoded: "E", Hex: "H"}}

	err := newTestUsecase(t, &fakeAPI{}, h, nil).HashAndVerify(context.Background(), entity.NewTextElement())
	require.NoError(t, err)

	assert.Equal(t, "password", h.gotPassword)
	assert.Equal(t, []byte("passhash"), h.gotSalt)
	assert.False(t, h.gotRandomSalt)
}

func TestUsecase_HashAndVerify_RandomSaltWhenUnset(t *testing.T) {
	h := &fakeHasher{digest: &hash.Digest{Encoded: "E", Hex: "H"}}

	err := newTestUsecase(t, &fakeAPI{}, h, map[string]any{"page.demo.salt": ""}).
		HashAndVerify(context.Background(), entity.NewTextElement())
	require.NoError(t, err)

	assert.True(t, h.gotRandomSalt)
	assert.Nil(t, h.gotSalt)
	assert.Equal(t, "password", h.gotPassword)
}

func TestUsecase_HashAndVerify_TextVisibleBeforeVerification(t *testing.T) {
	h := &fakeHasher{
		digest:         &hash.Digest{Encoded: "E", Hex: "H"},
		compareEntered: make(chan struct{}),
		compareRelease: make(chan struct{}),
	}
	uc := newTestUsecase(t, &fakeAPI{}, h, nil)
	out := entity.NewTextElement()

	done := make(chan error, 1)
	go func() { done <- uc.HashAndVerify(context.Background(), out) }()

	select {
	case <-h.compareEntered:
	case <-time.After(5 * time.Second):
		t.Fatal("verification never started")
	}
	assert.Equal(t, "Encoded: E\nHex: H\n", out.Text())

	close(h.compareRelease)
	require.NoError(t, <-done)
	assert.Equal(t, "Encoded: E\nHex: H\nVerified OK", out.Text())
}

func TestUsecase_HashAndVerify_RealArgon2(t *testing.T) {
	argon, err := hash.NewArgon2(hash.Argon2Config{Memory: 1024, Iterations: 1, Parallelism: 1, KeyLength: 16})
	require.NoError(t, err)

	out := entity.NewTextElement()
	err = newTestUsecase(t, &fakeAPI{}, argon, nil).HashAndVerify(context.Background(), out)
	require.NoError(t, err)

	want, err := argon.HashWithSalt("password", []byte("passhash"))
	require.NoError(t, err)
	assert.Equal(t, entity.HashText(want.Encoded, want.Hex)+entity.VerifiedText, out.Text())
}
