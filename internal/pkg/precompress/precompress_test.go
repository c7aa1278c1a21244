package precompress

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func bigHTML() string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n  <body>\n")
	for range 80 {
		b.WriteString("    <p class=\"line\">   secure   login   demo   </p>\n")
	}
	b.WriteString("    <code></code>\n  </body>\n</html>\n")
	return b.String()
}

func TestBuilder_Build(t *testing.T) {
	src := filepath.Join(t.TempDir(), "public")
	dst := filepath.Join(t.TempDir(), "dist")

	writeFile(t, filepath.Join(src, "index.html"), bigHTML())
	writeFile(t, filepath.Join(src, "index.js"), "const  answer =  42 ;\n")
	writeFile(t, filepath.Join(src, "vendor", "lib.min.js"), "var a = 1 ;")
	writeFile(t, filepath.Join(src, "favicon.ico"), strings.Repeat("x", 2000))
	writeFile(t, filepath.Join(src, "README.txt"), "not shipped")
	writeFile(t, filepath.Join(dst, "stale.html"), "old")

	report, err := New(0).Build(context.Background(), src, dst)
	require.NoError(t, err)
	assert.Equal(t, Report{Copied: 4, Minified: 2, Compressed: 1}, report)

	minified, err := os.ReadFile(filepath.Join(dst, "index.html"))
	require.NoError(t, err)
	assert.Less(t, len(minified), len(bigHTML()))
	assert.GreaterOrEqual(t, len(minified), DefaultThreshold)

	readers := map[string]func(io.Reader) (io.Reader, error){
		".gz": func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) },
		".br": func(r io.Reader) (io.Reader, error) { return brotli.NewReader(r), nil },
		".zst": func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		},
	}
	for suffix, open := range readers {
		compressed, err := os.ReadFile(filepath.Join(dst, "index.html"+suffix))
		require.NoError(t, err, suffix)

		r, err := open(bytes.NewReader(compressed))
		require.NoError(t, err, suffix)
		got, err := io.ReadAll(r)
		require.NoError(t, err, suffix)
		assert.Equal(t, minified, got, suffix)
	}

	small, err := os.ReadFile(filepath.Join(dst, "index.js"))
	require.NoError(t, err)
	assert.NotContains(t, string(small), "  ")
	assert.NoFileExists(t, filepath.Join(dst, "index.js.gz"))

	vendored, err := os.ReadFile(filepath.Join(dst, "vendor", "lib.min.js"))
	require.NoError(t, err)
	assert.Equal(t, "var a = 1 ;", string(vendored))

	assert.FileExists(t, filepath.Join(dst, "favicon.ico"))
	assert.NoFileExists(t, filepath.Join(dst, "favicon.ico.gz"))
	assert.NoFileExists(t, filepath.Join(dst, "README.txt"))
	assert.NoFileExists(t, filepath.Join(dst, "stale.html"))
}

func TestBuilder_BuildSameDir(t *testing.T) {
	dir := t.TempDir()

	_, err := New(0).Build(context.Background(), dir, dir+string(filepath.Separator))
	assert.ErrorIs(t, err, ErrSameDir)
}

func TestBuilder_BuildCanceled(t *testing.T) {
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "index.html"), "<p>x</p>")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(0).Build(ctx, src, filepath.Join(t.TempDir(), "dist"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuilder_MissingSource(t *testing.T) {
	_, err := New(0).Build(context.Background(), filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "dist"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestClean(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dist")
	writeFile(t, filepath.Join(dst, "index.html"), "x")

	require.NoError(t, Clean(dst))
	assert.NoDirExists(t, dst)
	assert.NoError(t, Clean(dst))
}
