package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CONFIG_PATH", "")

	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Secure login demo version "+Version+"\n", out)

	out, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "Secure login demo version "+Version+"\n", out)

	out, err = execute(t, "-v")
	require.NoError(t, err)
	assert.Equal(t, "Secure login demo version "+Version+"\n", out)
}

func TestBuildCommand(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dist")

	page := "<html><body>" + strings.Repeat("<p>   secure   login   </p>\n", 100) + "</body></html>"
	require.NoError(t, os.WriteFile(filepath.Join(src, "index.html"), []byte(page), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "notes.md"), []byte("skip"), 0o644))

	out, err := execute(t, "build", src, dst)
	require.NoError(t, err)
	assert.Equal(t, "1 files written, 1 minified, 1 precompressed\n", out)

	for _, name := range []string{"index.html", "index.html.gz", "index.html.br", "index.html.zst"} {
		assert.FileExists(t, filepath.Join(dst, name))
	}
	assert.NoFileExists(t, filepath.Join(dst, "notes.md"))

	_, err = execute(t, "build", "clean", dst)
	require.NoError(t, err)
	assert.NoDirExists(t, dst)
}

func TestBuildCommandArgs(t *testing.T) {
	_, err := execute(t, "build", "only-src")
	assert.Error(t, err)
}

func TestServeCommandTLSHalfConfigured(t *testing.T) {
	_, err := execute(t, "serve", "127.0.0.1:0", "--cert", "server.crt")
	assert.ErrorIs(t, err, ErrTLSKeyMissing)

	_, err = execute(t, "serve", "127.0.0.1:0", "--key", "server.key")
	assert.ErrorIs(t, err, ErrTLSCertMissing)
}

func TestServeCommandTooManyArgs(t *testing.T) {
	_, err := execute(t, "serve", "a", "b")
	assert.Error(t, err)
}
